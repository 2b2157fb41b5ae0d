// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

//go:build integration

package backup_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/playerstats/internal/backup"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/queries"
	"github.com/tomtom215/playerstats/internal/testinfra"
)

func TestPostgresCopy(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	pg, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start postgres: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, pg)

	live := database.NewPostgres("it", pg.DSN, time.Second, database.WithSchema(true))
	if err := live.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer live.Close()

	source := seeded(t, "source")
	want := testinfra.Snapshot(t, source)

	t.Run("sqlite to postgres", func(t *testing.T) {
		if _, err := backup.Copy(ctx, source, live, backup.Options{}); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}
		if got := testinfra.Snapshot(t, live); !reflect.DeepEqual(got, want) {
			t.Errorf("postgres differs from source:\n got %+v\nwant %+v", got, want)
		}
	})

	t.Run("postgres to duckdb", func(t *testing.T) {
		destination := testinfra.OpenDuckDB(t, "destination")
		if _, err := backup.Copy(ctx, live, destination, backup.Options{}); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}
		if got := testinfra.Snapshot(t, destination); !reflect.DeepEqual(got, want) {
			t.Errorf("duckdb differs from postgres:\n got %+v\nwant %+v", got, want)
		}
	})

	t.Run("filters run on postgres", func(t *testing.T) {
		ids := testinfra.Query(t, live, queries.BannedUserIDs(true))
		if len(ids) != 1 {
			t.Errorf("banned users = %v, want one", ids)
		}
		if state := live.Breaker().State(); state != gobreaker.StateClosed {
			t.Errorf("breaker state = %v, want closed", state)
		}
	})
}
