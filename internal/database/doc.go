// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

// Package database provides the backend-agnostic persistence core of
// Playerstats: read queries, write executables, atomic transactions and the
// Database façade over the supported relational backends.
//
// # Overview
//
// Reads are values of type Query[T], run with RunQuery against a read-only Conn.
// Writes are Executables grouped into a Transaction, submitted with
// Database.ExecuteTransaction and observed through the returned Handle:
//
//	tx := database.NewTransaction("store-tps").
//	    Then("tps", queries.StoreAllTPS(samples))
//	if err := db.ExecuteTransaction(tx, database.NonCritical).Wait(ctx); err != nil {
//	    return err
//	}
//
// # Backends
//
//   - SQLiteDatabase: embedded file or in-memory (modernc.org/sqlite, pure Go)
//   - DuckDatabase: embedded analytical database (github.com/duckdb/duckdb-go/v2)
//   - PostgresDatabase: networked (github.com/jackc/pgx/v5), guarded by a circuit breaker
//
// Statements are written with '?' placeholders; Dialect.Rebind converts them for
// Postgres.
//
// # Concurrency
//
// Each Database serializes its transactions with a write lock; reads run
// concurrently. A Pool dispatches transactions from a critical and a
// non-critical queue, always preferring critical work. Without a pool each
// transaction runs on its own goroutine.
//
// # Lifecycle
//
//	UNINITIALIZED -> OPENING -> OPEN -> CLOSING -> CLOSED
//
// Only OPEN accepts work. Everything else fails fast with a *NotOpenError.
//
// # Large Results
//
// Conn.QueryPaged reads unbounded tables in pages keyed on the integer id
// column, and BatchInsert writes many rows per round trip. Both are sized from
// the configured fetch and batch sizes.
package database
