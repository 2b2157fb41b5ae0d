// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Conn is the handle queries and executables run against. Inside a transaction
// it is bound to the *sql.Tx; for reads it is bound to the pool and refuses writes.
type Conn struct {
	q         queryer
	dialect   Dialect
	readOnly  bool
	batchSize int
	fetchSize int
}

// Dialect returns the SQL dialect of the backend.
func (c *Conn) Dialect() Dialect {
	return c.dialect
}

// FetchSize is the page size used for large result reads.
func (c *Conn) FetchSize() int {
	return c.fetchSize
}

// BatchSize is the maximum number of parameter rows per batch round trip.
func (c *Conn) BatchSize() int {
	return c.batchSize
}

func (c *Conn) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Backend: c.dialect.Name, Op: op, Err: err}
}

// Query runs a statement that returns rows.
func (c *Conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := c.q.QueryContext(ctx, c.dialect.Rebind(query), args...)
	if err != nil {
		return nil, c.wrap("query", err)
	}
	return rows, nil
}

// QueryRow runs a statement that returns at most one row.
func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.dialect.Rebind(query), args...)
}

// Exec runs a statement that writes. It fails with ErrReadOnly on read connections.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.readOnly {
		return nil, ErrReadOnly
	}
	res, err := c.q.ExecContext(ctx, c.dialect.Rebind(query), args...)
	if err != nil {
		return nil, c.wrap("exec", err)
	}
	return res, nil
}

// Prepare creates a prepared statement bound to this connection.
func (c *Conn) Prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	if c.readOnly {
		return nil, ErrReadOnly
	}
	stmt, err := c.q.PrepareContext(ctx, c.dialect.Rebind(query))
	if err != nil {
		return nil, c.wrap("prepare", err)
	}
	return stmt, nil
}

// ScanFunc scans the current row and returns the row's id, which must be the
// column the paged query orders by.
type ScanFunc func(rows *sql.Rows) (int64, error)

// QueryPaged reads a large result in pages of FetchSize rows using keyset
// pagination, so neither side holds the whole result in one cursor.
//
// The query must select from a table whose integer "id" column is referenced by
// the caller's WHERE clause as "id > ?" (the first placeholder) and must end
// with "ORDER BY id". QueryPaged appends "LIMIT ?".
//
//	err := conn.QueryPaged(ctx, "SELECT id, date, tps FROM tps WHERE id > ? ORDER BY id", nil, scan)
func (c *Conn) QueryPaged(ctx context.Context, query string, args []any, scan ScanFunc) error {
	pageSize := c.fetchSize
	if pageSize <= 0 {
		pageSize = 10000
	}
	paged := query + " LIMIT ?"

	var lastID int64 = -1
	for {
		pageArgs := make([]any, 0, len(args)+2)
		pageArgs = append(pageArgs, lastID)
		pageArgs = append(pageArgs, args...)
		pageArgs = append(pageArgs, pageSize)

		n, last, err := c.readPage(ctx, paged, pageArgs, scan)
		if err != nil {
			return err
		}
		if n < pageSize {
			return nil
		}
		lastID = last
	}
}

func (c *Conn) readPage(ctx context.Context, query string, args []any, scan ScanFunc) (int, int64, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return 0, 0, err
	}
	defer closeWithLog(rows, "rows")

	n := 0
	var last int64
	for rows.Next() {
		id, err := scan(rows)
		if err != nil {
			return n, last, fmt.Errorf("failed to scan row: %w", err)
		}
		last = id
		n++
	}
	if err := rows.Err(); err != nil {
		return n, last, c.wrap("iterate", err)
	}
	return n, last, nil
}
