package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/manifest"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/vcs"
)

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "update ROOT REPO [REPOS_FILE]",
		Short: "Record REPO's current packages in the registry and push it [CI]",
		Long: `Compare the catkin packages under ROOT with the ones REPOS_FILE lists for
REPO. When they differ, rewrite REPOS_FILE and commit and push it from the
CI scripts checkout named by --env.

REPOS_FILE defaults to repos_file (repos.yml) inside the scripts checkout.`,
		Example: `  JENKINS_SCRIPTS=~/jenkins_scripts pandoradep update src/pandora_vision pandora_vision
  pandoradep update --env CI_SCRIPTS src/pandora_vision pandora_vision ./repos.yml`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reposFile := ""
			if len(args) == 3 {
				reposFile = args[2]
			}
			return c.runUpdate(cmd, args[0], args[1], reposFile, env)
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "environment variable holding the CI scripts directory (default from config, JENKINS_SCRIPTS)")
	return cmd
}

func (c *CLI) runUpdate(cmd *cobra.Command, root, repo, reposFile, env string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if env == "" {
		env = c.cfg.ScriptsEnv
	}
	scripts := c.getenv(env)
	if reposFile == "" {
		if scripts == "" {
			return errors.New(errors.ErrCodeInvalidPersistenceEnv, "$%s is not set and no REPOS_FILE was given", env)
		}
		reposFile = filepath.Join(scripts, c.cfg.ReposFile)
	}
	path, err := filepath.Abs(reposFile)
	if err != nil {
		return err
	}

	snap, err := registry.LoadFile(path)
	if err != nil {
		return err
	}
	pkgs, err := manifest.Find(root, manifest.FindOptions{})
	if err != nil {
		return err
	}
	local := manifest.Names(pkgs)

	same, err := snap.SameAs(repo, local)
	if err != nil {
		printError("%s not found in %s", repo, path)
		printDetail("%s", strings.Join(snap.Repos(), ", "))
		return err
	}
	if same {
		printSuccess("Nothing changed")
		return nil
	}

	updated, err := snap.Replace(repo, local)
	if err != nil {
		return err
	}
	printInfo("Updating packages of %s", StyleHighlight.Render(repo))
	logger.Debug("registry update", "repo", repo, "packages", len(local), "env", env)

	written, err := vcs.NewPublisher(c.runner()).Publish(ctx, vcs.PublishOptions{
		ScriptsDir: scripts,
		EnvName:    env,
		File:       path,
		Snapshot:   updated,
	})
	if err != nil {
		return err
	}
	printSuccess("Published %s", repo)
	printFile(written)
	return nil
}

func joinPackages(pkgs []string) string {
	if len(pkgs) == 0 {
		return "(no packages)"
	}
	return strings.Join(pkgs, ", ")
}
