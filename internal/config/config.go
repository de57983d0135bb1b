// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RefreshQueueSize bounds the in-memory refresh job queue.
	RefreshQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the refresh deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxOverviewLimit caps GET /overview?limit.
	MaxOverviewLimit int `koanf:"max_overview_limit"`

	// CacheTTLSeconds controls how long fetched source payloads stay fresh.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// SourceSeed seeds the simulated source providers.
	SourceSeed int64 `koanf:"source_seed"`

	// EnabledSources lists the wellbeing sources to evaluate.
	EnabledSources []string `koanf:"enabled_sources"`
}

// New creates a Config populated with defaults.
func New(opts ...Option) *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		RefreshQueueSize: 10_000,
		WorkerCount:      runtime.NumCPU() * 4,
		DedupeSize:       50_000,
		MaxOverviewLimit: 100,
		CacheTTLSeconds:  120,
		SourceSeed:       1,
		EnabledSources:   []string{"email", "calendar", "activity"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option applies a configuration override to a Config.
type Option func(*Config)

// WithAddr overrides the HTTP listen address.
func WithAddr(addr string) Option {
	return func(c *Config) {
		if addr != "" {
			c.Addr = addr
		}
	}
}

// WithWorkerCount overrides the number of refresh workers.
func WithWorkerCount(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.WorkerCount = n
		}
	}
}
