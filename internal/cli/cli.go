// Package cli implements the flowmetric command-line interface.
//
// This package provides commands for scoring candidate workflow graphs
// against references, running batch evaluations over directories, serving
// the scoring API, rendering graphs, and managing the embedding cache. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - score: Score one candidate graph against one reference graph
//   - batch: Score every matching pair between two directories
//   - serve: Run the HTTP scoring API
//   - render: Draw a workflow graph as SVG, PNG, or DOT
//   - cache: Manage the embedding cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flowmetric/flowmetric/pkg/buildinfo"
	"github.com/flowmetric/flowmetric/pkg/cache"
	"github.com/flowmetric/flowmetric/pkg/config"
	"github.com/flowmetric/flowmetric/pkg/embed"
	"github.com/flowmetric/flowmetric/pkg/eval"
)

// appName is the application name used for directories and display.
const appName = "flowmetric"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
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
		Use:          appName,
		Short:        "Flowmetric scores workflow graphs against references",
		Long:         `Flowmetric compares annotated workflow graphs - candidate against reference - using semantic node matching, topological sequence alignment, and reachability analysis, and reports precision, recall and F1.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (default: XDG config dir)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the embedding cache")

	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration honoring the --config flag.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newEncoder builds the embedding encoder from configuration, wrapping it in
// the cache layer unless caching is disabled.
func (c *CLI) newEncoder(cfg config.Config) (embed.Encoder, *embed.Client, error) {
	var (
		encoder embed.Encoder
		client  *embed.Client
	)
	switch cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		encoder = embed.NewOpenAI(cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	default:
		client = embed.NewClient(cfg.Embedding.BaseURL)
		encoder = client
	}

	store := c.newCache(cfg)
	if store != nil {
		model := cfg.Embedding.Model
		if model == "" {
			model = cfg.Embedding.Provider
		}
		encoder = embed.NewCached(encoder, store, model)
	}
	return encoder, client, nil
}

// newCache builds the embedding cache from configuration. Returns nil when
// caching is disabled or unavailable; embedding calls then go straight to
// the backend.
func (c *CLI) newCache(cfg config.Config) cache.Cache {
	if c.noCache || cfg.Cache.Backend == config.CacheNone {
		return nil
	}
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		store, err := cache.NewRedisCache(context.Background(), cfg.Cache.Redis)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "error", err)
			return nil
		}
		return store
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil
			}
		}
		store, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without cache", "error", err)
			return nil
		}
		return store
	}
}

// newEvaluator wires config, encoder and scoring engine together.
func (c *CLI) newEvaluator() (*eval.Evaluator, *embed.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	encoder, client, err := c.newEncoder(cfg)
	if err != nil {
		return nil, nil, err
	}
	evaluator, err := eval.NewEvaluator(encoder, cfg.Scoring, eval.WithLogger(c.Logger))
	if err != nil {
		return nil, nil, err
	}
	return evaluator, client, nil
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/flowmetric/).
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
