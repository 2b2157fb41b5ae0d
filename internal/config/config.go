// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package config

import (
	"time"

	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/supervisor"
)

// Config holds all application configuration.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Backup     BackupConfig     `koanf:"backup"`
	Pool       PoolConfig       `koanf:"pool"`
	Activity   ActivityConfig   `koanf:"activity"`
	Filters    FiltersConfig    `koanf:"filters"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// DatabaseConfig selects and tunes the primary backend.
type DatabaseConfig struct {
	// Name identifies the database in logs and metrics.
	Name string `koanf:"name" validate:"required"`

	// Backend is one of sqlite, duckdb, postgres.
	Backend string `koanf:"backend" validate:"required,oneof=sqlite duckdb postgres"`

	// Path is the database file for embedded backends. ":memory:" keeps it in memory.
	Path string `koanf:"path" validate:"required_unless=Backend postgres"`

	// DSN is the connection string for postgres.
	DSN string `koanf:"dsn" validate:"required_if=Backend postgres"`

	// BatchSize is the maximum number of parameter rows per batch round trip.
	BatchSize int `koanf:"batch_size" validate:"min=1,max=100000"`

	// FetchSize is the page size for large result reads.
	FetchSize int `koanf:"fetch_size" validate:"min=1,max=1000000"`

	MaxOpenConns int `koanf:"max_open_conns" validate:"min=0"`

	// CreateSchema runs CREATE TABLE IF NOT EXISTS on open.
	CreateSchema bool `koanf:"create_schema"`

	// BreakerTimeout is how long the postgres circuit breaker stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// BackupConfig is the default target of backup and restore copies.
type BackupConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=sqlite duckdb"`
	Path    string `koanf:"path" validate:"required"`

	// Interval between scheduled backups. 0 disables the scheduler.
	Interval time.Duration `koanf:"interval" validate:"min=0"`
}

// PoolConfig sizes the transaction worker pool.
type PoolConfig struct {
	Workers   int `koanf:"workers" validate:"min=1,max=64"`
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// NonCriticalRate limits non-critical transactions per second. 0 = unlimited.
	NonCriticalRate float64 `koanf:"non_critical_rate" validate:"min=0"`
}

// ActivityConfig holds the activity index thresholds.
type ActivityConfig struct {
	// PlayThreshold is the weekly active playtime counted as "active".
	PlayThreshold time.Duration `koanf:"play_threshold" validate:"gt=0"`

	// LoginThreshold is the weekly session count counted as "active".
	LoginThreshold int `koanf:"login_threshold" validate:"min=1"`
}

// FiltersConfig configures the player filter engine.
type FiltersConfig struct {
	// Timezone is used to interpret filter dates and times.
	Timezone string `koanf:"timezone" validate:"required,timezone"`

	CacheEnabled bool `koanf:"cache_enabled"`

	// CachePath is the badger directory; empty keeps the cache in memory.
	CachePath string        `koanf:"cache_path"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"gte=0"`
}

// MetricsConfig controls the /metrics and /healthz listener.
type MetricsConfig struct {
	Enabled    bool   `koanf:"enabled"`
	ListenAddr string `koanf:"listen_addr" validate:"required_if=Enabled true"`
}

// LoggingConfig mirrors logging.Config for file and environment loading.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	Caller bool `koanf:"caller"`
}

// ToLoggingConfig converts to the logging package configuration.
func (c LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Caller = c.Caller
	return cfg
}

// SupervisorConfig tunes the suture tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// ToTreeConfig converts to the supervisor package configuration.
func (c SupervisorConfig) ToTreeConfig() supervisor.TreeConfig {
	return supervisor.TreeConfig{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		ShutdownTimeout:  c.ShutdownTimeout,
	}
}
