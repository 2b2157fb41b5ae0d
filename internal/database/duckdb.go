// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDatabase is an embedded analytical database.
type DuckDatabase struct {
	*sqlDatabase
	path string
}

// NewDuckDB creates a DuckDB database at path (or MemoryPath).
func NewDuckDB(name, path string, opts ...Option) *DuckDatabase {
	d := &DuckDatabase{path: path}
	d.sqlDatabase = newSQLDatabase(name, DuckDB, d.connect, opts)
	return d
}

// Path returns the database file.
func (d *DuckDatabase) Path() string {
	return d.path
}

func (d *DuckDatabase) connect(ctx context.Context) (*sql.DB, error) {
	target := MemoryPath
	if d.path != MemoryPath {
		target = d.path + "?access_mode=read_write&"
		dir := filepath.Dir(d.path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	} else {
		target += "?"
	}

	// Extensions are not needed; disable auto-install so opening never touches the network.
	dsn := fmt.Sprintf("%sthreads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false",
		target, runtime.NumCPU())

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	// All connections of one *sql.DB share the same DuckDB instance, in memory too.
	if d.opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(d.opts.MaxOpenConns)
	}
	db.SetConnMaxLifetime(0)
	return db, nil
}
