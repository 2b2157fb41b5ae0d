// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresDatabase is a networked database reached through pgx. Every backend
// call passes through a circuit breaker.
type PostgresDatabase struct {
	*sqlDatabase
	dsn     string
	breaker *Breaker
}

// NewPostgres creates a Postgres database for dsn.
func NewPostgres(name, dsn string, breakerTimeout time.Duration, opts ...Option) *PostgresDatabase {
	p := &PostgresDatabase{
		dsn:     dsn,
		breaker: NewBreaker("postgres-"+name, breakerTimeout),
	}
	p.sqlDatabase = newSQLDatabase(name, Postgres, p.connect, opts)
	p.guard = p.breaker.Do
	return p
}

// Breaker returns the breaker guarding this database.
func (p *PostgresDatabase) Breaker() *Breaker {
	return p.breaker
}

func (p *PostgresDatabase) connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", p.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	conns := p.opts.MaxOpenConns
	if conns <= 0 {
		conns = 10
	}
	db.SetMaxOpenConns(conns)
	db.SetMaxIdleConns(conns / 2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
