package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegraph/pkg/buildinfo"
	"github.com/matzehuels/scenegraph/pkg/cache"
	"github.com/matzehuels/scenegraph/pkg/observability"
	"github.com/matzehuels/scenegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "scenegraph"

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
	config     Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Scenegraph computes global placements in 2D transform hierarchies",
		Long: `Scenegraph loads a tree of 2D transforms from JSON or TOML, composes each
node's local transform with its ancestors', and prints, renders, browses or
serves the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/scenegraph/config.toml)")

	root.AddCommand(c.computeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	completeSceneFiles(root, "compute", "validate", "render", "browse")

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a render runner backed by the local file cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newFileCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cache.Instrument(ch, "artifact", observability.Cache()), nil, c.Logger)
	r.TTL = c.config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newFileCache(noCache bool) (cache.Cache, error) {
	if noCache || c.config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// newSharedCache returns a Redis cache when one is configured and
// reachable, otherwise the local file cache.
func (c *CLI) newSharedCache(ctx context.Context) (cache.Cache, error) {
	if c.config.Cache.Disabled || c.config.Cache.RedisAddr == "" {
		return c.newFileCache(false)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:   c.config.Cache.RedisAddr,
		Prefix: appName + ":",
	}, c.Logger)
	if err != nil {
		c.Logger.Warn("redis unavailable, falling back to file cache", "addr", c.config.Cache.RedisAddr, "err", err)
		return c.newFileCache(false)
	}
	return rc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/scenegraph/).
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
