// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package testinfra

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tomtom215/playerstats/internal/database"
)

// OpenSQLite opens a file-backed SQLite database in a temporary directory and
// closes it when the test ends.
func OpenSQLite(t testing.TB, name string, opts ...database.Option) *database.SQLiteDatabase {
	t.Helper()
	db := database.NewSQLite(name, filepath.Join(t.TempDir(), name+".db"), opts...)
	open(t, db)
	return db
}

// OpenDuckDB opens an in-memory DuckDB database and closes it when the test ends.
func OpenDuckDB(t testing.TB, name string, opts ...database.Option) *database.DuckDatabase {
	t.Helper()
	db := database.NewDuckDB(name, database.MemoryPath, opts...)
	open(t, db)
	return db
}

func open(t testing.TB, db database.Database) {
	t.Helper()
	if err := db.Open(context.Background()); err != nil {
		t.Fatalf("Failed to open %s database: %v", db.Backend(), err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close %s database: %v", db.Backend(), err)
		}
	})
}

// Execute runs tx synchronously and fails the test on error.
func Execute(t testing.TB, db database.Database, tx *database.Transaction) {
	t.Helper()
	if err := db.ExecuteTransactionSync(context.Background(), tx); err != nil {
		t.Fatalf("transaction %s failed: %v", tx.Name, err)
	}
}

// Query runs q and fails the test on error.
func Query[T any](t testing.TB, db database.Database, q database.Query[T]) T {
	t.Helper()
	result, err := database.RunQuery(context.Background(), db, q)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return result
}
