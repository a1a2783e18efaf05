// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDSN is the SQLite data source name. ":memory:" keeps the store
	// in-process; a file path persists it across restarts.
	DBDSN string `koanf:"db_dsn"`

	// AutoSeed loads the deterministic sample dataset on startup when the
	// store is empty.
	AutoSeed bool `koanf:"auto_seed"`

	// MaxBatchSize caps the number of records accepted per batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// GaugeRefreshSeconds sets the interval for refreshing store gauges.
	GaugeRefreshSeconds int `koanf:"gauge_refresh_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DBDSN:               ":memory:",
		AutoSeed:            true,
		MaxBatchSize:        500,
		GaugeRefreshSeconds: 30,
	}
}
