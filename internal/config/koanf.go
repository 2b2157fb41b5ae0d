// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/playerstats/config.yaml",
	"/etc/playerstats/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied.
// Defaults are loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Name:           "main",
			Backend:        "sqlite",
			Path:           "/data/playerstats.db",
			BatchSize:      2048,
			FetchSize:      10000,
			MaxOpenConns:   0, // backend default
			CreateSchema:   true,
			BreakerTimeout: 30 * time.Second,
		},
		Backup: BackupConfig{
			Backend:  "sqlite",
			Path:     "/data/backups/playerstats-backup.db",
			Interval: 0,
		},
		Pool: PoolConfig{
			Workers:         2,
			QueueSize:       1024,
			NonCriticalRate: 0,
		},
		Activity: ActivityConfig{
			PlayThreshold:  30 * time.Minute,
			LoginThreshold: 2,
		},
		Filters: FiltersConfig{
			Timezone:     "UTC",
			CacheEnabled: true,
			CachePath:    "",
			CacheTTL:     5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1:9464",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing default path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variables to koanf paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"db_name":            "database.name",
	"db_backend":         "database.backend",
	"db_path":            "database.path",
	"db_dsn":             "database.dsn",
	"db_batch_size":      "database.batch_size",
	"db_fetch_size":      "database.fetch_size",
	"db_max_open_conns":  "database.max_open_conns",
	"db_create_schema":   "database.create_schema",
	"db_breaker_timeout": "database.breaker_timeout",

	"backup_backend":  "backup.backend",
	"backup_path":     "backup.path",
	"backup_interval": "backup.interval",

	"pool_workers":           "pool.workers",
	"pool_queue_size":        "pool.queue_size",
	"pool_non_critical_rate": "pool.non_critical_rate",

	"activity_play_threshold":  "activity.play_threshold",
	"activity_login_threshold": "activity.login_threshold",

	"filters_timezone":      "filters.timezone",
	"filters_cache_enabled": "filters.cache_enabled",
	"filters_cache_path":    "filters.cache_path",
	"filters_cache_ttl":     "filters.cache_ttl",

	"metrics_enabled":     "metrics.enabled",
	"metrics_listen_addr": "metrics.listen_addr",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
