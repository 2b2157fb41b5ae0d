// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
)

// UserIDs is a set of destination-local integer user ids.
type UserIDs map[int]struct{}

// Add inserts id.
func (u UserIDs) Add(id int) {
	u[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (u UserIDs) Contains(id int) bool {
	_, ok := u[id]
	return ok
}

// rowsOf yields one parameter row per item.
func rowsOf[T any](items []T, row func(T) []any) iter.Seq[[]any] {
	return func(yield func([]any) bool) {
		for _, item := range items {
			if !yield(row(item)) {
				return
			}
		}
	}
}

// collect runs query and scans every row with scan.
func collect(ctx context.Context, conn *database.Conn, scan func(*sql.Rows) error, query string, args ...any) error {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer closeRows(rows)

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
	}
	return rows.Err()
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close rows")
	}
}

// userIDs runs a query selecting a single integer user id column.
func userIDs(ctx context.Context, conn *database.Conn, query string, args ...any) (UserIDs, error) {
	ids := UserIDs{}
	err := collect(ctx, conn, func(rows *sql.Rows) error {
		var id int
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids.Add(id)
		return nil
	}, query, args...)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// upsert runs update and falls back to insert when no row matched.
func upsert(update, insert database.Statement) database.Executable {
	return database.ExecutableFunc(func(ctx context.Context, conn *database.Conn) (bool, error) {
		updated, err := update.Execute(ctx, conn)
		if err != nil {
			return false, err
		}
		if updated {
			return true, nil
		}
		return insert.Execute(ctx, conn)
	})
}

func anyArgs[T any](values []T) []any {
	return lo.Map(values, func(v T, _ int) any { return v })
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
