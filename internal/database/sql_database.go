// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/metrics"
)

// Database is a relational store that runs read queries and atomic
// transactions. Every method except State, Name and Backend fails fast with a
// *NotOpenError unless the database is OPEN.
type Database interface {
	// Open connects to the backend and, when configured, creates missing tables.
	Open(ctx context.Context) error

	// Close waits for the running transaction, then releases the connection.
	Close() error

	State() State
	Name() string
	Backend() string

	// Generation changes on every committed transaction and on every open, so
	// values derived from the data can be keyed by it.
	Generation() uint64

	// Read runs fn with a read-only connection.
	Read(ctx context.Context, fn func(conn *Conn) error) error

	// ExecuteTransaction submits tx and returns immediately. The transaction runs
	// on the database's worker pool, or on its own goroutine without one.
	ExecuteTransaction(tx *Transaction, priority Priority) *Handle

	// ExecuteTransactionSync submits tx as critical and waits for it with ctx.
	ExecuteTransactionSync(ctx context.Context, tx *Transaction) error
}

// Options tune a Database.
type Options struct {
	BatchSize    int
	FetchSize    int
	MaxOpenConns int
	CreateSchema bool

	// Pool dispatches transactions; nil runs each on a fresh goroutine.
	Pool *Pool
}

// Option configures Options.
type Option func(*Options)

// WithPool dispatches transactions through p.
func WithPool(p *Pool) Option {
	return func(o *Options) { o.Pool = p }
}

// WithBatchSize sets the batch size.
func WithBatchSize(n int) Option {
	return func(o *Options) { o.BatchSize = n }
}

// WithFetchSize sets the page size for large reads.
func WithFetchSize(n int) Option {
	return func(o *Options) { o.FetchSize = n }
}

// WithSchema controls schema creation on open.
func WithSchema(create bool) Option {
	return func(o *Options) { o.CreateSchema = create }
}

// WithMaxOpenConns caps the connection pool of networked backends.
func WithMaxOpenConns(n int) Option {
	return func(o *Options) { o.MaxOpenConns = n }
}

func defaultOptions() Options {
	return Options{
		BatchSize:    2048,
		FetchSize:    10000,
		CreateSchema: true,
	}
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// connector opens the *sql.DB for one backend.
type connector func(ctx context.Context) (*sql.DB, error)

// guard runs a backend call; the postgres backend routes it through its breaker.
type guard func(fn func() error) error

func unguarded(fn func() error) error { return fn() }

// sqlDatabase is the database/sql core shared by every backend.
type sqlDatabase struct {
	name    string
	dialect Dialect
	opts    Options
	connect connector
	guard   guard

	state      atomic.Int32
	generation atomic.Uint64
	db         *sql.DB
	writeMu    sync.Mutex
}

func newSQLDatabase(name string, dialect Dialect, connect connector, opts []Option) *sqlDatabase {
	return &sqlDatabase{
		name:    name,
		dialect: dialect,
		opts:    buildOptions(opts),
		connect: connect,
		guard:   unguarded,
	}
}

func (d *sqlDatabase) Name() string    { return d.name }
func (d *sqlDatabase) Backend() string { return d.dialect.Name }

// Generation implements Database.
func (d *sqlDatabase) Generation() uint64 {
	return d.generation.Load()
}

// State returns the current lifecycle state.
func (d *sqlDatabase) State() State {
	return State(d.state.Load())
}

func (d *sqlDatabase) notOpen() error {
	return &NotOpenError{Name: d.name, State: d.State()}
}

// Open implements Database. Only an UNINITIALIZED database can be opened; a
// failed open returns it to UNINITIALIZED.
func (d *sqlDatabase) Open(ctx context.Context) error {
	if !d.state.CompareAndSwap(int32(StateUninitialized), int32(StateOpening)) {
		return fmt.Errorf("cannot open database %s: %w", d.name, d.notOpen())
	}

	db, err := d.connect(ctx)
	if err == nil {
		err = d.guard(func() error { return db.PingContext(ctx) })
		if err != nil {
			closeWithLog(db, "database")
		}
	}
	if err != nil {
		d.state.Store(int32(StateUninitialized))
		return &BackendError{Backend: d.dialect.Name, Op: "open", Err: err}
	}
	d.db = db

	if d.opts.CreateSchema {
		if err := d.createSchema(ctx); err != nil {
			closeWithLog(db, "database")
			d.db = nil
			d.state.Store(int32(StateUninitialized))
			return err
		}
	}

	// Seeded from the clock so a reopened database never repeats a generation.
	d.generation.Store(uint64(time.Now().UnixNano()))
	d.state.Store(int32(StateOpen))
	logging.Info().
		Str("database", d.name).
		Str("backend", d.dialect.Name).
		Bool("schema", d.opts.CreateSchema).
		Msg("Database opened")
	return nil
}

func (d *sqlDatabase) createSchema(ctx context.Context) error {
	for _, stmt := range SchemaStatements(d.dialect) {
		err := d.guard(func() error {
			_, err := d.db.ExecContext(ctx, stmt)
			return err
		})
		if err != nil {
			return &BackendError{Backend: d.dialect.Name, Op: "create schema", Err: fmt.Errorf("%s: %w", stmt, err)}
		}
	}
	return nil
}

// Close implements Database. Closing a database that was never opened marks it CLOSED.
func (d *sqlDatabase) Close() error {
	if d.state.CompareAndSwap(int32(StateUninitialized), int32(StateClosed)) {
		return nil
	}
	if !d.state.CompareAndSwap(int32(StateOpen), int32(StateClosing)) {
		return nil
	}

	// Wait for the transaction holding the write lock.
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	err := d.db.Close()
	d.state.Store(int32(StateClosed))
	if err != nil {
		return &BackendError{Backend: d.dialect.Name, Op: "close", Err: err}
	}
	logging.Info().Str("database", d.name).Msg("Database closed")
	return nil
}

func (d *sqlDatabase) conn(q queryer, readOnly bool) *Conn {
	return &Conn{
		q:         q,
		dialect:   d.dialect,
		readOnly:  readOnly,
		batchSize: d.opts.BatchSize,
		fetchSize: d.opts.FetchSize,
	}
}

// Read implements Database.
func (d *sqlDatabase) Read(ctx context.Context, fn func(conn *Conn) error) error {
	if d.State() != StateOpen {
		return d.notOpen()
	}
	conn := d.conn(d.db, true)
	return d.guard(func() error { return fn(conn) })
}

// ExecuteTransaction implements Database.
func (d *sqlDatabase) ExecuteTransaction(tx *Transaction, priority Priority) *Handle {
	if d.State() != StateOpen {
		return finishedHandle(false, d.notOpen())
	}
	if d.opts.Pool != nil {
		return d.opts.Pool.submit(d, tx, priority)
	}

	h := newHandle()
	go func() {
		did, err := d.execute(context.Background(), tx)
		h.finish(did, err)
	}()
	return h
}

// ExecuteTransactionSync implements Database.
func (d *sqlDatabase) ExecuteTransactionSync(ctx context.Context, tx *Transaction) error {
	return d.ExecuteTransaction(tx, Critical).Wait(ctx)
}

// execute runs tx under the write lock: begin, steps, commit once. Any failure
// rolls the whole transaction back.
func (d *sqlDatabase) execute(ctx context.Context, tx *Transaction) (bool, error) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if d.State() != StateOpen {
		metrics.RecordTransaction(d.dialect.Name, tx.Name, "rejected", 0)
		return false, d.notOpen()
	}

	start := time.Now()
	var did bool
	err := d.guard(func() error {
		var err error
		did, err = d.runInTx(ctx, tx)
		return err
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordTransaction(d.dialect.Name, tx.Name, "rolled_back", elapsed)
		logging.Warn().
			Str("database", d.name).
			Str("transaction", tx.Name).
			Dur("duration", elapsed).
			Err(err).
			Msg("Transaction rolled back")
		var txErr *TransactionError
		if !errors.As(err, &txErr) {
			err = &TransactionError{Transaction: tx.Name, Err: err}
		}
		return false, err
	}

	d.generation.Add(1)
	metrics.RecordTransaction(d.dialect.Name, tx.Name, "committed", elapsed)
	logging.Debug().
		Str("database", d.name).
		Str("transaction", tx.Name).
		Int("steps", len(tx.Steps)).
		Dur("duration", elapsed).
		Msg("Transaction committed")
	return did, nil
}

func (d *sqlDatabase) runInTx(ctx context.Context, tx *Transaction) (bool, error) {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, &TransactionError{
			Transaction: tx.Name,
			Stage:       "begin",
			Err:         &BackendError{Backend: d.dialect.Name, Op: "begin", Err: err},
		}
	}

	did, err := tx.run(ctx, d.conn(sqlTx, false))
	if err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logging.Error().Str("transaction", tx.Name).Err(rbErr).Msg("Rollback failed")
		}
		return false, err
	}

	if err := sqlTx.Commit(); err != nil {
		return false, &TransactionError{
			Transaction: tx.Name,
			Stage:       "commit",
			Err:         &BackendError{Backend: d.dialect.Name, Op: "commit", Err: err},
		}
	}
	return did, nil
}
