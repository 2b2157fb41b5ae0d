// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	"github.com/tomtom215/playerstats/internal/metrics"
)

// Executable is a write operation run inside a transaction. It reports whether
// it performed any work; false with a nil error means there was nothing to do.
type Executable interface {
	Execute(ctx context.Context, conn *Conn) (bool, error)
}

// ExecutableFunc adapts a function to Executable.
type ExecutableFunc func(ctx context.Context, conn *Conn) (bool, error)

// Execute implements Executable.
func (f ExecutableFunc) Execute(ctx context.Context, conn *Conn) (bool, error) {
	return f(ctx, conn)
}

// Statement is a single parameterized statement.
type Statement struct {
	SQL  string
	Args []any
}

// Execute implements Executable; it reports work when a row was affected.
func (s Statement) Execute(ctx context.Context, conn *Conn) (bool, error) {
	res, err := conn.Exec(ctx, s.SQL, s.Args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows; the statement still ran.
		return true, nil
	}
	return n > 0, nil
}

// Sequence runs executables in order and reports work if any of them did.
func Sequence(steps ...Executable) Executable {
	return ExecutableFunc(func(ctx context.Context, conn *Conn) (bool, error) {
		did := false
		for _, step := range steps {
			ok, err := step.Execute(ctx, conn)
			if err != nil {
				return did, err
			}
			did = did || ok
		}
		return did, nil
	})
}

// BatchInsert writes many parameter rows into one table through a single
// statement template. Rows are sent as multi-row VALUES lists, so each chunk is
// one round trip; chunk size is bounded by the connection batch size and the
// dialect's parameter limit.
//
//	database.BatchInsert{
//	    Table:   "tps",
//	    Columns: []string{"server_uuid", "date", "tps"},
//	    Rows:    rows,
//	}
type BatchInsert struct {
	Table   string
	Columns []string
	Rows    iter.Seq[[]any]
}

// Execute implements Executable. An empty row sequence is a no-op.
func (b BatchInsert) Execute(ctx context.Context, conn *Conn) (bool, error) {
	if len(b.Columns) == 0 {
		return false, fmt.Errorf("batch insert into %s has no columns", b.Table)
	}
	if b.Rows == nil {
		return false, nil
	}

	chunk := conn.batchSize
	if chunk <= 0 {
		chunk = 1024
	}
	if limit := conn.dialect.MaxParams / len(b.Columns); limit < chunk {
		chunk = limit
	}

	pending := make([][]any, 0, chunk)
	wrote := false
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := b.insert(ctx, conn, pending); err != nil {
			return err
		}
		wrote = true
		pending = pending[:0]
		return nil
	}

	for row := range b.Rows {
		if len(row) != len(b.Columns) {
			return wrote, fmt.Errorf("batch insert into %s: row has %d values, want %d", b.Table, len(row), len(b.Columns))
		}
		pending = append(pending, row)
		if len(pending) == chunk {
			if err := flush(); err != nil {
				return wrote, err
			}
		}
		if err := ctx.Err(); err != nil {
			return wrote, err
		}
	}
	if err := flush(); err != nil {
		return wrote, err
	}
	return wrote, nil
}

func (b BatchInsert) insert(ctx context.Context, conn *Conn, rows [][]any) error {
	group := "(" + Placeholders(len(b.Columns)) + ")"

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.Table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(b.Columns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(b.Columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(group)
		args = append(args, row...)
	}

	if _, err := conn.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert batch into %s: %w", b.Table, err)
	}
	metrics.RecordBatch(b.Table, len(rows))
	return nil
}

// BatchExec runs one prepared statement once per parameter row, for updates and
// deletes that cannot be expressed as a multi-row VALUES list.
type BatchExec struct {
	Name string
	SQL  string
	Rows iter.Seq[[]any]
}

// Execute implements Executable. An empty row sequence is a no-op and does not
// prepare the statement.
func (b BatchExec) Execute(ctx context.Context, conn *Conn) (bool, error) {
	if b.Rows == nil {
		return false, nil
	}

	var stmt *sql.Stmt
	defer func() {
		if stmt != nil {
			closeWithLog(stmt, "statement")
		}
	}()

	did := false
	count := 0
	for row := range b.Rows {
		if stmt == nil {
			var err error
			if stmt, err = conn.Prepare(ctx, b.SQL); err != nil {
				return false, fmt.Errorf("failed to prepare %s: %w", b.Name, err)
			}
		}
		res, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			return did, conn.wrap(b.Name, err)
		}
		if n, err := res.RowsAffected(); err != nil || n > 0 {
			did = true
		}
		count++
	}
	if count > 0 {
		metrics.RecordBatch(b.Name, count)
	}
	return did, nil
}
