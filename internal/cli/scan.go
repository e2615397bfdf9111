package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/checkout"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/manifest"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/render"
)

// Output formats of the scan command besides the checkout formats
// (rosinstall, git) understood by checkout.ParseFormat.
const (
	formatGit  = "git"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

type scanOpts struct {
	http    bool
	git     bool
	exclude []string
	format  string
	output  string
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Print the repositories the packages under DIR depend on",
		Long: `Scan DIR for catkin packages, resolve their build and run dependencies
against the registry and print one checkout entry per repository.

By default rosinstall entries are printed, ready for wstool.`,
		Example: `  pandoradep scan src/ > deps.rosinstall
  pandoradep scan --git --http src/
  pandoradep scan -x src/experimental --mode permissive src/
  pandoradep scan --format svg -o deps.svg src/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.http, "http", false, "use https URLs instead of ssh")
	cmd.Flags().BoolVar(&opts.git, "git", false, "print git clone URLs (same as --format git)")
	cmd.Flags().StringArrayVarP(&opts.exclude, "exclude", "x", nil, "exclude a directory from the scan (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "rosinstall", "output format: rosinstall, git, json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	addResolveFlags(cmd)

	return cmd
}

// addResolveFlags registers the flags every resolving command shares.
func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().String("branch", "", "version for dependencies without one (default from config, \"master\")")
	cmd.Flags().String("mode", "", "conflict policy: strict or permissive (default from config)")
}

func (c *CLI) runScan(cmd *cobra.Command, dir string, opts scanOpts) error {
	ctx := cmd.Context()

	format := opts.format
	if opts.git && !cmd.Flags().Changed("format") {
		format = formatGit
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	res, err := c.resolveDir(ctx, cmd, dir, opts.exclude, nil)
	if err != nil {
		return err
	}

	// Rendered in full before anything is written, so a failure leaves no
	// truncated output behind.
	var buf bytes.Buffer
	if err := writeResult(ctx, &buf, res, format, opts.http); err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess("Wrote %d repositories", res.Len())
	printFile(opts.output)
	return nil
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatDOT, formatSVG:
		return nil
	}
	if _, err := checkout.ParseFormat(format); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (available: rosinstall, git, json, dot, svg)", format)
	}
	return nil
}

// resolveDir scans dir for packages and resolves their dependencies. The
// registry is fetched unless idx is given.
func (c *CLI) resolveDir(ctx context.Context, cmd *cobra.Command, dir string, exclude []string, idx *registry.Index) (*deps.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	pkgs, err := manifest.Find(dir, manifest.FindOptions{Exclude: exclude})
	if err != nil {
		return nil, err
	}
	logger.Debug("packages found", "dir", dir, "count", len(pkgs))
	if len(pkgs) == 0 {
		printWarning("No catkin packages found in %s", dir)
	}

	if idx == nil {
		if idx, err = c.fetchIndex(ctx); err != nil {
			return nil, err
		}
	}

	opts, err := c.resolveOptions(ctx, cmd)
	if err != nil {
		return nil, err
	}
	res, err := deps.Resolve(manifest.Declarations(pkgs), idx, opts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Resolved %d repositories", res.Len()))
	return res, nil
}

// renderSVG is replaced in tests.
var renderSVG = render.SVG

func writeResult(ctx context.Context, w io.Writer, res *deps.Result, format string, http bool) error {
	transport := checkout.SSH
	if http {
		transport = checkout.HTTPS
	}
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case formatDOT:
		_, err := io.WriteString(w, render.ToDOT(res))
		return err
	case formatSVG:
		svg, err := renderSVG(ctx, render.ToDOT(res))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		f, err := checkout.ParseFormat(format)
		if err != nil {
			return err
		}
		return checkout.Render(w, res, checkout.Style{Format: f, Transport: transport})
	}
}
