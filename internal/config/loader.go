package config

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/radar/internal/domain/stats"
)

// Environment variable names.
const (
	EnvPrefix     = "RADAR_"
	EnvConfigFile = "RADAR_CONFIG"
	EnvPort       = "PORT"
	maxPort       = 65535
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RADAR_CONFIG is set
//  3. env (prefix RADAR_)
//  4. PORT
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// RADAR_UPLOAD_DIR -> upload_dir. Underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfigFile {
			return ""
		}
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	portProvider := env.Provider(EnvPort, ".", func(s string) string {
		if s == EnvPort {
			return "port"
		}
		return ""
	})
	if err := k.Load(portProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.applyPort(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPort rewrites the port of Addr when Port is set.
func (c *Config) applyPort() error {
	if c.Port == 0 {
		return nil
	}
	if c.Port < 0 || c.Port > maxPort {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		host = ""
	}
	c.Addr = net.JoinHostPort(host, strconv.Itoa(c.Port))
	return nil
}

// Validate checks invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.UploadDir == "":
		return fmt.Errorf("%w: upload_dir must not be empty", ErrInvalidConfig)
	case c.ChartDir == "":
		return fmt.Errorf("%w: chart_dir must not be empty", ErrInvalidConfig)
	case c.StoreBackend != "json" && c.StoreBackend != "sqlite":
		return fmt.Errorf("%w: store_backend must be json or sqlite, got %q", ErrInvalidConfig, c.StoreBackend)
	case c.LeaderboardPath() == "":
		return fmt.Errorf("%w: leaderboard storage path must not be empty", ErrInvalidConfig)
	case c.LeaderboardLimit < 1:
		return fmt.Errorf("%w: leaderboard_limit must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < c.LeaderboardLimit:
		return fmt.Errorf("%w: max_leaderboard_limit must be >= leaderboard_limit", ErrInvalidConfig)
	case c.MaxUploadBytes < 1:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	if _, err := stats.ParseCategory(c.DefaultCategory); err != nil {
		return fmt.Errorf("%w: default_category %q: %w", ErrInvalidConfig, c.DefaultCategory, err)
	}
	return nil
}
