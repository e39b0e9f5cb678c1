// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - Errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. "0.0.0.0:5000".
	Addr string `koanf:"addr"`

	// Port, when non-zero, replaces the port part of Addr. It is fed by the
	// bare PORT environment variable as well as RADAR_PORT.
	Port int `koanf:"port"`

	// UploadDir holds submitted photos; ChartDir holds rendered charts.
	UploadDir string `koanf:"upload_dir"`
	ChartDir  string `koanf:"chart_dir"`

	// StoreBackend selects the leaderboard store: "json" or "sqlite".
	StoreBackend string `koanf:"store_backend"`

	// LeaderboardFile is the JSON collection used by the json backend.
	LeaderboardFile string `koanf:"leaderboard_file"`

	// SQLitePath is the database used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// LeaderboardLimit is the number of rows the leaderboard page shows.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DefaultCategory is shown when the leaderboard is requested without one.
	DefaultCategory string `koanf:"default_category"`

	// MaxUploadBytes caps a single photo upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                "0.0.0.0:5000",
		UploadDir:           "static/uploads",
		ChartDir:            "static/charts",
		StoreBackend:        "json",
		LeaderboardFile:     "leaderboard.json",
		SQLitePath:          "leaderboard.db",
		LeaderboardLimit:    10,
		MaxLeaderboardLimit: 100,
		DefaultCategory:     "KARBIT",
		MaxUploadBytes:      16 << 20,
	}
}

// LeaderboardPath returns the storage location for the selected backend.
func (c *Config) LeaderboardPath() string {
	if c.StoreBackend == "sqlite" {
		return c.SQLitePath
	}
	return c.LeaderboardFile
}
