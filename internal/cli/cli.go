// Package cli implements the bartree command-line interface.
//
// # Commands
//
//   - convert: encode every bar of a score into grouped sequences and trees
//   - show: print one bar's tree as text, Graphviz DOT or SVG
//   - inspect: browse the encoded bars of a score interactively
//   - midi: import a monophonic MIDI track into a bar document
//   - cache: clear or locate the result cache
//
// # Configuration
//
// Settings come from a TOML file (--config, default bartree.toml in the
// working directory) and are overridden by flags. All commands support
// --verbose (-v) for debug-level logging; the logger travels through the
// command's context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bartree/pkg/buildinfo"
	"github.com/matzehuels/bartree/pkg/cache"
	"github.com/matzehuels/bartree/pkg/config"
	"github.com/matzehuels/bartree/pkg/pipeline"
)

const (
	appName = "bartree"

	// defaultConfigPath is read when --config is not given. A missing file
	// means built-in defaults.
	defaultConfigPath = "bartree.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), config: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "bartree converts musical bars between rhythm trees and grouped sequences",
		Long:          `bartree infers the tuplet and beam structure of each bar of a score, prints it as a rhythm tree, and writes it back as a flat sequence with explicit grouping.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigPath+")")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.midiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path, "backend", cfg.Cache.Backend)
	return nil
}

// newRunner creates a pipeline runner for the configured cache backend.
// Keys are scoped to the build, so an upgrade never reads stale results.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg := c.config.Cache; cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, appName+":")
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
