// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"time"

	"github.com/tomtom215/playerstats/internal/metrics"
)

// Query is a read-only operation producing a T. Queries must not write; the
// Conn they receive from Database.Read rejects Exec.
type Query[T any] func(ctx context.Context, conn *Conn) (T, error)

// RunQuery executes q against db. It fails fast with a *NotOpenError unless db is OPEN.
//
//	servers, err := database.RunQuery(ctx, db, queries.FetchAllServers())
func RunQuery[T any](ctx context.Context, db Database, q Query[T]) (T, error) {
	var result T
	err := db.Read(ctx, func(conn *Conn) error {
		var err error
		result, err = q(ctx, conn)
		return err
	})
	return result, err
}

// Named labels a query for metrics.
func Named[T any](name string, q Query[T]) Query[T] {
	return func(ctx context.Context, conn *Conn) (T, error) {
		start := time.Now()
		result, err := q(ctx, conn)
		metrics.RecordDBQuery(conn.dialect.Name, name, time.Since(start), err)
		return result, err
	}
}
