package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cacheCommand creates the "cache" command with its subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the embedding cache",
		Long: `Cache manages the on-disk embedding cache.

Embedding vectors are cached per model and text so repeated scoring runs
avoid redundant backend calls. Redis-backed caches are managed through
the Redis server itself and are not affected by these commands.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached embeddings",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheLocation()
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is already empty")
				return nil
			}
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			printSuccess("Cache cleared")
			printFile(dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the embedding cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheLocation()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheLocation resolves the file cache directory, preferring an explicit
// configuration value over the XDG default.
func (c *CLI) cacheLocation() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}
