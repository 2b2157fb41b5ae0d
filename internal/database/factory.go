// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"fmt"

	"github.com/tomtom215/playerstats/internal/config"
)

// New creates the database described by cfg. Extra options override the
// configured values.
func New(cfg config.DatabaseConfig, extra ...Option) (Database, error) {
	opts := []Option{
		WithBatchSize(cfg.BatchSize),
		WithFetchSize(cfg.FetchSize),
		WithSchema(cfg.CreateSchema),
		WithMaxOpenConns(cfg.MaxOpenConns),
	}
	opts = append(opts, extra...)

	switch cfg.Backend {
	case SQLite.Name:
		return NewSQLite(cfg.Name, cfg.Path, opts...), nil
	case DuckDB.Name:
		return NewDuckDB(cfg.Name, cfg.Path, opts...), nil
	case Postgres.Name:
		return NewPostgres(cfg.Name, cfg.DSN, cfg.BreakerTimeout, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported database backend %q", cfg.Backend)
	}
}

// NewFile creates an embedded database stored at path, for backup targets.
func NewFile(name, backend, path string, opts ...Option) (Database, error) {
	switch backend {
	case SQLite.Name:
		return NewSQLite(name, path, opts...), nil
	case DuckDB.Name:
		return NewDuckDB(name, path, opts...), nil
	default:
		return nil, fmt.Errorf("backend %q cannot be stored in a file", backend)
	}
}
