// Package cli implements the pathcover command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcover/pkg/buildinfo"
	"github.com/matzehuels/pathcover/pkg/cache"
	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/engine"
	"github.com/matzehuels/pathcover/pkg/httputil"
	"github.com/matzehuels/pathcover/pkg/remote"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pathcover"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the user config
// (falling back to built-in defaults when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}
	return &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pathcover",
		Short:        "Pathcover analyzes flow networks for path cover structure",
		Long:         `Pathcover is a CLI tool for analyzing flow networks: it computes the minimum number of source-sink walks covering all edge demand, extracts maximum edge antichains, certifies safe paths and sequences, and decomposes flows into max-bottleneck paths.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.widthCommand())
	root.AddCommand(c.antichainCommand())
	root.AddCommand(c.safetyCommand())
	root.AddCommand(c.condenseCommand())
	root.AddCommand(c.decomposeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine creates an analysis engine for CLI use, backed by the cache the
// config selects (file by default, redis when configured).
func (c *CLI) newEngine(ctx context.Context, noCache bool) (*engine.Engine, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	eng := engine.New(store, nil, c.Logger)
	if len(c.Config.Remote.Headers) > 0 {
		eng.SetRemote(c.newRemote(noCache))
	}
	return eng, nil
}

// newRemote builds a remote client carrying the configured request headers.
func (c *CLI) newRemote(noCache bool) *remote.Client {
	var rc *httputil.Cache
	if !noCache {
		if dir, err := cacheDir(); err == nil {
			rc, _ = httputil.NewCache(dir, cache.TTLGraph)
		}
	}
	return remote.NewClient(rc, c.Config.Remote.Headers)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pathcover/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/pathcover/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// inputOpts holds the graph input flags shared by all analysis commands.
type inputOpts struct {
	index   int
	starts  []string
	ends    []string
	refresh bool
	noCache bool
}

// addInputFlags registers the shared input flags on cmd.
func addInputFlags(cmd *cobra.Command, in *inputOpts) {
	cmd.Flags().IntVar(&in.index, "index", 0, "graph block index within multi-graph input")
	cmd.Flags().StringSliceVar(&in.starts, "start", nil, "additional start node(s) attached to the source")
	cmd.Flags().StringSliceVar(&in.ends, "end", nil, "additional end node(s) attached to the sink")
	cmd.Flags().BoolVar(&in.refresh, "refresh", false, "bypass the remote response cache")
	cmd.Flags().BoolVar(&in.noCache, "no-cache", false, "disable result caching")
}

// apply copies the input flags onto opts.
func (in *inputOpts) apply(opts *engine.Options, source string) {
	opts.Source = source
	opts.Index = in.index
	opts.AdditionalStarts = in.starts
	opts.AdditionalEnds = in.ends
	opts.Refresh = in.refresh
}

// =============================================================================
// Execution Helper
// =============================================================================

// execute runs a single engine execution with a spinner.
func (c *CLI) execute(ctx context.Context, opts engine.Options, noCache bool, msg string) (*engine.Result, error) {
	eng, err := c.newEngine(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, msg)
	spinner.Start()

	result, err := eng.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}

// =============================================================================
// Edge Key Formatting
// =============================================================================

// formatKey renders an edge key for terminal output.
func formatKey(k digraph.Key) string {
	return k.From + " -> " + k.To
}
