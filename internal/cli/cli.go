// Package cli implements the relaymap command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"relaymap/pkg/buildinfo"
	"relaymap/pkg/cache"
	"relaymap/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "relaymap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "relaymap",
		Short:        "Relaymap visualizes compiler errors as relay graphs",
		Long:         `Relaymap turns raw compiler output into a graph of error locations and the symbols they reference, lays it out, and renders it for inspection.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/relaymap/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, cfg fileConfig) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache, cfg.Cache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache selects the cache backend from config. The RELAYMAP_NO_CACHE
// environment variable disables caching regardless of configuration.
func (c *CLI) newCache(ctx context.Context, noCache bool, cfg cacheConfig) (cache.Cache, error) {
	if noCache || os.Getenv("RELAYMAP_NO_CACHE") != "" {
		return cache.NewNullCache(), nil
	}

	switch cfg.Backend {
	case "", "file":
		dir := cfg.Path
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	case "sqlite":
		path := cfg.Path
		if path == "" {
			dir, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "cache.db")
		}
		return cache.NewSQLiteCache(path)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "none":
		return cache.NewNullCache(), nil
	default:
		c.Logger.Warnf("unknown cache backend %q, caching disabled", cfg.Backend)
		return cache.NewNullCache(), nil
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/relaymap/).
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
