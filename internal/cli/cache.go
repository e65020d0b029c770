package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bartree/pkg/cache"
	"github.com/matzehuels/bartree/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the encoded bar cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached bar",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui{w: cmd.OutOrStdout()}
			switch cfg := c.config.Cache; cfg.Backend {
			case config.BackendNone:
				u.info("Caching is disabled")
				return nil
			case config.BackendRedis:
				rc, err := cache.NewRedisCache(cmd.Context(), cfg.RedisAddr, appName+":")
				if err != nil {
					return fmt.Errorf("connect to redis: %w", err)
				}
				defer rc.Close()
				n, err := rc.Clear(cmd.Context())
				if err != nil {
					return err
				}
				u.success("Cleared %d cached bars", n)
				u.detail("Redis: %s", cfg.RedisAddr)
				return nil
			}

			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			if n == 0 {
				u.info("Cache is empty")
				return nil
			}
			u.success("Cleared %d cached bars", n)
			u.detail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where bars are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch cfg := c.config.Cache; cfg.Backend {
			case config.BackendNone:
				return fmt.Errorf("caching is disabled")
			case config.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), "redis://"+cfg.RedisAddr)
				return nil
			}
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
