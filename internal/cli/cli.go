// Package cli implements the pandoradep command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/buildinfo"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/config"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/deps"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/registry"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/vcs"
)

const appName = "pandoradep"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Runner vcs.Runner          // git runner; nil means os/exec
	Getenv func(string) string // environment lookup; nil means os.Getenv

	configPath  string
	registryURL string
	refresh     bool
	verbose     bool

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pandoradep resolves PANDORA package dependencies to repositories",
		Long: `pandoradep scans catkin packages for their build and run dependencies,
maps every dependency to the PANDORA repository that owns it using the
registry (repos.yml), and prints checkout instructions or clones the
repositories.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/pandoradep/config.toml)")
	pf.StringVar(&c.registryURL, "registry", "", "registry URL (overrides config)")
	pf.BoolVar(&c.refresh, "refresh", false, "ignore the cached registry and download it again")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.getCommand())
	root.AddCommand(c.createCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) getenv(key string) string {
	if c.Getenv != nil {
		return c.Getenv(key)
	}
	return os.Getenv(key)
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath, c.getenv)
	if err != nil {
		return err
	}
	if c.registryURL != "" {
		cfg.RegistryURL = c.registryURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg
	return nil
}

func (c *CLI) runner() vcs.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return vcs.NewExecRunner(c.Logger)
}

// fetchRegistry downloads (or loads from cache) the registry snapshot.
func (c *CLI) fetchRegistry(ctx context.Context) (registry.Snapshot, error) {
	logger := loggerFromContext(ctx)

	store, err := c.cfg.NewCache()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	client := registry.NewClient(c.cfg.RegistryURL, store, c.cfg.Cache.TTL, logger)

	spinner := newSpinnerWithContext(ctx, "Fetching registry...")
	spinner.Start()
	snap, err := client.Fetch(ctx, c.refresh)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	logger.Debug("registry loaded", "url", client.URL(), "repos", len(snap))
	return snap, nil
}

// fetchIndex fetches the registry and builds its ownership index.
func (c *CLI) fetchIndex(ctx context.Context) (*registry.Index, error) {
	snap, err := c.fetchRegistry(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := registry.NewIndex(snap)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("ownership index built", "packages", idx.Len())
	return idx, nil
}

// resolveOptions builds resolver options from config and the command's
// --mode and --branch flags.
func (c *CLI) resolveOptions(ctx context.Context, cmd *cobra.Command) (deps.Options, error) {
	mode := c.cfg.ResolveMode()
	if f := cmd.Flags().Lookup("mode"); f != nil && f.Changed {
		m, err := deps.ParseMode(f.Value.String())
		if err != nil {
			return deps.Options{}, err
		}
		mode = m
	}
	branch := c.cfg.DefaultBranch
	if f := cmd.Flags().Lookup("branch"); f != nil && f.Changed {
		branch = f.Value.String()
	}
	return deps.Options{
		Mode:          mode,
		DefaultBranch: branch,
		Logger:        loggerFromContext(ctx),
		OnConflict:    printConflict(mode),
	}, nil
}

// cacheDir returns the file cache directory (~/.cache/pandoradep/ by default).
func (c *CLI) cacheDir() (string, error) {
	return c.cfg.CacheDir()
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Resolved 4 repositories (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
