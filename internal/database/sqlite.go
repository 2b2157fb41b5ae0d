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

	_ "modernc.org/sqlite"
)

// MemoryPath opens an embedded database in memory.
const MemoryPath = ":memory:"

// SQLiteDatabase is an embedded single-file database.
type SQLiteDatabase struct {
	*sqlDatabase
	path string
}

// NewSQLite creates an SQLite database at path (or MemoryPath). It is not
// opened until Open is called.
func NewSQLite(name, path string, opts ...Option) *SQLiteDatabase {
	s := &SQLiteDatabase{path: path}
	s.sqlDatabase = newSQLDatabase(name, SQLite, s.connect, opts)
	return s
}

// Path returns the database file.
func (s *SQLiteDatabase) Path() string {
	return s.path
}

func (s *SQLiteDatabase) connect(ctx context.Context) (*sql.DB, error) {
	// WAL lets readers proceed during the writer's transaction; immediate
	// transactions take the write lock at BEGIN instead of failing at the first write.
	params := "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"

	var dsn string
	if s.path == MemoryPath {
		dsn = "file::memory:?" + params
	} else {
		dir := filepath.Dir(s.path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		dsn = "file:" + s.path + "?" + params + "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// An in-memory database lives and dies with its only connection.
	if s.path == MemoryPath {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		conns := s.opts.MaxOpenConns
		if conns <= 0 {
			conns = 4
		}
		db.SetMaxOpenConns(conns)
		db.SetMaxIdleConns(conns)
	}
	db.SetConnMaxLifetime(0)
	return db, nil
}
