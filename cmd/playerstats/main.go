// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

// Package main runs the playerstats data layer: the configured database with
// its transaction pool, the filter engine, scheduled backups and the
// /metrics and /healthz listener, all under one supervisor tree.
//
// Configuration is loaded by Koanf v2 from built-in defaults, an optional
// config.yaml (CONFIG_PATH) and environment variables:
//
//	DB_BACKEND=duckdb DB_PATH=/data/playerstats.duckdb \
//	BACKUP_PATH=/data/backups/playerstats.db BACKUP_INTERVAL=24h \
//	METRICS_ENABLED=true ./playerstats
//
// SIGINT and SIGTERM stop the tree; queued transactions are failed and the
// database is closed after the pool has drained.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/playerstats/internal/activity"
	"github.com/tomtom215/playerstats/internal/backup"
	"github.com/tomtom215/playerstats/internal/cache"
	"github.com/tomtom215/playerstats/internal/config"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/filter"
	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/supervisor"
	"github.com/tomtom215/playerstats/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Playerstats stopped with an error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(cfg.Logging.ToLoggingConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg.Supervisor.ToTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	pool := database.NewPool(database.PoolConfig{
		Workers:         cfg.Pool.Workers,
		QueueSize:       cfg.Pool.QueueSize,
		NonCriticalRate: cfg.Pool.NonCriticalRate,
	})
	tree.AddDataService(pool)

	db, err := database.New(cfg.Database, database.WithPool(pool))
	if err != nil {
		return err
	}
	if err := db.Open(ctx); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	filterCache := openFilterCache(cfg.Filters)
	if filterCache != nil {
		defer func() {
			if err := filterCache.Close(); err != nil {
				logging.Warn().Err(err).Msg("Failed to close filter cache")
			}
		}()
	}

	loc, err := time.LoadLocation(cfg.Filters.Timezone)
	if err != nil {
		return fmt.Errorf("filters timezone: %w", err)
	}
	engine := filter.NewEngine(db,
		filter.WithLocation(loc),
		filter.WithCalculator(activity.NewCalculator(cfg.Activity.PlayThreshold, cfg.Activity.LoginThreshold)),
		filter.WithCache(filterCache),
	)

	scheduler := backup.NewScheduler(db, cfg.Backup)
	tree.AddDataService(scheduler)

	if cfg.Metrics.Enabled {
		srv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           newRouter(newHealth(db, engine, filterCache, scheduler)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService("metrics-http", srv, cfg.Supervisor.ShutdownTimeout))
	}

	logging.Info().
		Str("database", db.Name()).
		Str("backend", db.Backend()).
		Int("workers", cfg.Pool.Workers).
		Bool("metrics", cfg.Metrics.Enabled).
		Dur("backup_interval", cfg.Backup.Interval).
		Msg("Playerstats started")

	err = tree.Serve(ctx)
	drain(tree, pool)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("Playerstats stopped")
	return nil
}

// drain runs once the tree has returned: transactions still queued fail with
// database.ErrPoolStopped, and services that outlived the shutdown timeout
// are logged.
func drain(tree *supervisor.SupervisorTree, pool *database.Pool) {
	pool.Stop()

	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to read unstopped services")
		return
	}
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service did not stop before the shutdown timeout")
	}
}

// openFilterCache returns nil when caching is disabled. A badger cache that
// cannot be opened falls back to the in-memory cache.
func openFilterCache(cfg config.FiltersConfig) cache.Cacher {
	if !cfg.CacheEnabled {
		return nil
	}
	if cfg.CachePath == "" {
		return cache.NewTTL(cfg.CacheTTL)
	}
	c, err := cache.NewCacher(cache.CacheConfig{
		Name: "filters",
		Type: cache.CacheTypeBadger,
		TTL:  cfg.CacheTTL,
		Path: cfg.CachePath,
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.CachePath).Msg("Failed to open badger cache, using memory")
		return cache.NewTTL(cfg.CacheTTL)
	}
	return c
}
