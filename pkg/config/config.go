// Package config loads application configuration from TOML files.
//
// Configuration is optional: every field has a working default, and a
// missing file is not an error. Explicit paths that don't exist do fail, so
// a typo in --config surfaces instead of silently using defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/flowmetric/flowmetric/pkg/cache"
	"github.com/flowmetric/flowmetric/pkg/errors"
	"github.com/flowmetric/flowmetric/pkg/eval"
)

// Embedding provider names accepted in the [embedding] section.
const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

// Cache backend names accepted in the [cache] section.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	Scoring   eval.Config `toml:"scoring"`
	Embedding Embedding   `toml:"embedding"`
	Cache     Cache       `toml:"cache"`
	Server    Server      `toml:"server"`
}

// Embedding selects and configures the embedding backend.
type Embedding struct {
	// Provider is "http" (a sidecar exposing /embed and /health) or
	// "openai".
	Provider string `toml:"provider"`

	// BaseURL of the embedding service. For openai this overrides the
	// default API endpoint, useful for compatible proxies.
	BaseURL string `toml:"base_url"`

	// Model requested from the provider. Ignored by the http provider,
	// which serves a single model.
	Model string `toml:"model"`

	// APIKey for the openai provider. The OPENAI_API_KEY environment
	// variable takes precedence so keys stay out of config files.
	APIKey string `toml:"api_key"`
}

// Cache configures the embedding cache.
type Cache struct {
	// Backend is "file", "redis" or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache location. Empty means the XDG default.
	Dir string `toml:"dir"`

	Redis cache.RedisConfig `toml:"redis"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Scoring: eval.DefaultConfig(),
		Embedding: Embedding{
			Provider: ProviderHTTP,
			BaseURL:  "http://localhost:8230",
		},
		Cache: Cache{
			Backend: CacheFile,
			Redis:   cache.RedisConfig{Addr: "localhost:6379"},
		},
		Server: Server{
			Addr: ":8080",
		},
	}
}

// Load reads the configuration at path, layered over Default. An empty path
// falls back to the default location (DefaultPath) and tolerates a missing
// file; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine, defaults apply.
	default:
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath returns the default config file location, following the XDG
// convention with a fallback to ~/.config.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "flowmetric", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "flowmetric", "config.toml")
}

// Validate checks cross-field constraints the TOML decoder can't.
func (c Config) Validate() error {
	switch c.Embedding.Provider {
	case ProviderHTTP, ProviderOpenAI:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return c.Scoring.Validate()
}
