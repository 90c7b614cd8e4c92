package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flowmetric/flowmetric/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
	if cfg.Embedding.Provider != ProviderHTTP {
		t.Errorf("default provider = %q, want %q", cfg.Embedding.Provider, ProviderHTTP)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("default cache backend = %q, want %q", cfg.Cache.Backend, CacheFile)
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") with missing file should use defaults: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scoring]
match_threshold = 0.8
enum_limit = 5

[embedding]
provider = "openai"
model = "text-embedding-3-large"

[cache]
backend = "redis"

[cache.redis]
addr = "redis.internal:6379"
db = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scoring.MatchThreshold != 0.8 {
		t.Errorf("match threshold = %v, want 0.8", cfg.Scoring.MatchThreshold)
	}
	if cfg.Scoring.EnumLimit != 5 {
		t.Errorf("enum limit = %d, want 5", cfg.Scoring.EnumLimit)
	}
	// Unset fields keep their defaults.
	if cfg.Scoring.PositionPenalty != Default().Scoring.PositionPenalty {
		t.Errorf("position penalty = %v, want default", cfg.Scoring.PositionPenalty)
	}
	if cfg.Embedding.Provider != ProviderOpenAI {
		t.Errorf("provider = %q, want openai", cfg.Embedding.Provider)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.Redis.Addr != "redis.internal:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("cache = %+v, want redis overrides", cfg.Cache)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"bad toml", "scoring = [", errors.ErrCodeInvalidFormat},
		{"bad provider", "[embedding]\nprovider = \"bert\"\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"bad threshold", "[scoring]\nmatch_threshold = 2.0\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[embedding]\nprovider = \"openai\"\napi_key = \"from-file\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Embedding.APIKey != "from-env" {
		t.Errorf("api key = %q, environment should win", cfg.Embedding.APIKey)
	}
}
