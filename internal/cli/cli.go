// Package cli implements the boardview command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boardview/pkg/buildinfo"
	"github.com/matzehuels/boardview/pkg/cache"
	"github.com/matzehuels/boardview/pkg/config"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/loader"
	"github.com/matzehuels/boardview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "boardview"

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

	configPath string
	cfg        *config.Config
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
		Short: "Boardview explores hardware module trees",
		Long: `Boardview reads a directory tree of hardware modules and their connection
files and shows it as nested, collapsible boxes with routed connections.

Explore interactively in the terminal with 'view', serve the same views over
HTTP with 'serve', or write snapshots with 'render'.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig returns the configuration, reading it on first use.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("configuration ready", "path", c.configFile())
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Loading
// =============================================================================

// loadTree walks dir with the configured loader settings.
func (c *CLI) loadTree(ctx context.Context, dir string, cfg *config.Config) (*loader.Result, error) {
	p := newProgress(c.Logger)
	res, err := loader.Load(ctx, dir, loaderOptions(cfg))
	if err != nil {
		return nil, err
	}
	for _, s := range res.Skipped {
		c.Logger.Debug("skipped directory", "path", s)
	}
	p.done("Loaded " + res.Root)
	return res, nil
}

// loaderOptions returns the directory scan settings of cfg.
func loaderOptions(cfg *config.Config) loader.Options {
	return loader.Options{
		Skip:        cfg.Loader.Skip,
		NoGitignore: cfg.Loader.NoGitignore,
		MaxDepth:    cfg.Loader.MaxDepth,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache picks the artifact cache: none, Redis when an address is
// configured, otherwise the local file cache. An unreachable Redis falls back
// to the file cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := cfg.Render.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: addr, Prefix: appName + ":"})
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", addr)
			return cache.Instrument(rc), nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", addr, "err", err)
	}
	fc, err := cache.NewFileCache(cacheDir(cfg))
	if err != nil {
		return nil, err
	}
	return cache.Instrument(fc), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the XDG
// cache location (~/.cache/boardview/).
func cacheDir(cfg *config.Config) string {
	if cfg != nil && cfg.Render.CacheDir != "" {
		return cfg.Render.CacheDir
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds render options from the configuration.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Skip:        cfg.Loader.Skip,
		NoGitignore: cfg.Loader.NoGitignore,
		MaxDepth:    cfg.Loader.MaxDepth,
		Formats:     cfg.Render.Formats,
		Scale:       cfg.Render.Scale,
		Detailed:    cfg.Render.Detailed,
		CacheTTL:    cfg.Render.CacheTTL,
		Camera:      cfg.CameraSettings(),
		Controller:  cfg.ControllerOptions(),
	}
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields fallback, or svg when fallback is empty.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		if len(fallback) > 0 {
			return fallback
		}
		return []string{graph.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
