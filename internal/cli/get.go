package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/checkout"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/vcs"
)

type getOpts struct {
	fetchOpts
	withoutDeps bool
}

// getCommand creates the get command.
func (c *CLI) getCommand() *cobra.Command {
	var opts getOpts

	cmd := &cobra.Command{
		Use:   "get REPO",
		Short: "Clone a PANDORA repository together with its dependencies",
		Example: `  pandoradep get pandora_vision
  pandoradep get --without-deps --branch hydro-devel pandora_common`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGet(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.withoutDeps, "without-deps", false, "don't fetch the repository's dependencies")
	cmd.Flags().BoolVar(&opts.http, "http", false, "clone with https instead of ssh")
	cmd.Flags().StringVar(&opts.dest, "dest", "", "directory to clone into (default: current directory)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", defaultJobs, "number of parallel dependency clones")
	addResolveFlags(cmd)

	return cmd
}

func (c *CLI) runGet(cmd *cobra.Command, repo string, opts getOpts) error {
	ctx := cmd.Context()

	if err := errors.ValidateRepoName(repo); err != nil {
		return err
	}
	idx, err := c.fetchIndex(ctx)
	if err != nil {
		return err
	}
	if !idx.Has(repo) {
		printError("%s is not a PANDORA repo", repo)
		return errors.New(errors.ErrCodeUnknownRepo, "%s is not a PANDORA repo (known: %s)", repo, strings.Join(idx.Repos(), ", "))
	}
	owned, err := idx.Packages(repo)
	if err != nil {
		return err
	}

	dest := opts.dest
	if dest == "" {
		if dest, err = os.Getwd(); err != nil {
			return err
		}
	}
	transport := checkout.SSH
	if opts.http {
		transport = checkout.HTTPS
	}
	branch := c.cfg.DefaultBranch
	if f := cmd.Flags().Lookup("branch"); f.Changed {
		branch = f.Value.String()
	}

	printInfo("Cloning %s %s", StyleHighlight.Render(repo), StyleDim.Render("("+branch+")"))
	printDetail("Packages: %s", joinPackages(owned))
	if _, err := vcs.NewCloner(c.runner()).Clone(ctx, checkout.URL(repo, transport), branch, dest, repo); err != nil {
		return err
	}
	if opts.withoutDeps {
		printSuccess("Cloned %s", repo)
		return nil
	}

	res, err := c.resolveDir(ctx, cmd, filepath.Join(dest, repo), nil, idx)
	if err != nil {
		return err
	}
	opts.fetchOpts.dest = dest
	return c.cloneAll(ctx, res, opts.fetchOpts)
}
