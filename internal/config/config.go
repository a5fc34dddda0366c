package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Mode selects which schema variant, query shapes, and hash policy the server
// runs with.
const (
	ModeNaive     = "naive"
	ModeOptimized = "optimized"
)

type Config struct {
	Port     string `env:"PORT,     default=4000"`
	Mode     string `env:"MODE,     default=naive"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Pretty   bool   `env:"LOG_PRETTY, default=false"`

	// DBPath overrides the per-mode default store file.
	DBPath string `env:"DB_PATH"`

	SeedUsers int `env:"SEED_USERS, default=50"`
	SeedPosts int `env:"SEED_POSTS, default=200"`

	HashCacheSize int `env:"HASH_CACHE_SIZE, default=1000"`

	DBMaxOpen     int `env:"DB_MAX_OPEN, default=25"`
	DBMaxIdle     int `env:"DB_MAX_IDLE, default=25"`
	DBMaxLifetime int `env:"DB_MAX_LIFETIME, default=300"` // seconds
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.Mode {
	case ModeNaive, ModeOptimized:
	default:
		return nil, fmt.Errorf("config: unknown MODE %q (want %q or %q)", cfg.Mode, ModeNaive, ModeOptimized)
	}

	if cfg.DBPath == "" {
		if cfg.Mode == ModeOptimized {
			cfg.DBPath = "perfapi_optimized.db"
		} else {
			cfg.DBPath = "perfapi.db"
		}
	}

	return &cfg, nil
}
