package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
)

// createCommand creates the create command.
func (c *CLI) createCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "create ROOT",
		Short: "Build a registry file from a tree of checked-out repositories [CI]",
		Long: `Walk ROOT for git repositories and record, for each one, the catkin
packages it contains. The result is a repos.yml registry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := registry.Build(args[0])
			if err != nil {
				return err
			}
			data, err := registry.Encode(snap)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode registry")
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}

			printSuccess("Registry with %d repositories", len(snap))
			for _, repo := range snap.Repos() {
				printKeyValue(repo, StyleDim.Render(joinPackages(snap[repo])))
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "repos.yml", "registry file to write")
	return cmd
}
