package cli

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/checkout"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/vcs"
)

type fetchOpts struct {
	http bool
	dest string
	jobs int
}

const defaultJobs = 4

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch [DIR]",
		Short: "Clone every repository the packages under DIR depend on",
		Long: `Resolve the dependencies of the packages under DIR (default: the current
directory) and clone each repository at its resolved version. Repositories
already present in the destination are skipped.`,
		Example: `  pandoradep fetch
  pandoradep fetch --http --dest ~/catkin_ws/src src/pandora_vision`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runFetch(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.http, "http", false, "clone with https instead of ssh")
	cmd.Flags().StringVar(&opts.dest, "dest", "", "directory to clone into (default: current directory)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", defaultJobs, "number of parallel clones")
	addResolveFlags(cmd)

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, dir string, opts fetchOpts) error {
	ctx := cmd.Context()
	res, err := c.resolveDir(ctx, cmd, dir, nil, nil)
	if err != nil {
		return err
	}
	return c.cloneAll(ctx, res, opts)
}

func (c *CLI) cloneAll(ctx context.Context, res *deps.Result, opts fetchOpts) error {
	dest := opts.dest
	if dest == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dest = wd
	}
	transport := checkout.SSH
	if opts.http {
		transport = checkout.HTTPS
	}

	jobs := opts.jobs
	if jobs < 1 {
		jobs = 1
	}

	cloner := vcs.NewCloner(c.runner())
	var cloned atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, rec := range checkout.Sorted(res) {
		url := checkout.URL(rec.Repo, transport)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			printInfo("Cloning %s %s", StyleHighlight.Render(rec.Repo), StyleDim.Render("("+rec.Version+")"))
			skipped, err := cloner.Clone(gctx, url, rec.Version, dest, rec.Repo)
			if err != nil {
				return err
			}
			if skipped {
				printDetail("%s already exists, skipped", rec.Repo)
				return nil
			}
			cloned.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	printSuccess("Cloned %d of %d repositories", cloned.Load(), res.Len())
	return nil
}
