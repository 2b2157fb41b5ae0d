// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package backup_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/playerstats/internal/backup"
	"github.com/tomtom215/playerstats/internal/config"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/metrics"
	"github.com/tomtom215/playerstats/internal/models"
	"github.com/tomtom215/playerstats/internal/queries"
	"github.com/tomtom215/playerstats/internal/testinfra"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC).UnixMilli()

var stalePlayer = models.BaseUser{UUID: uuid.MustParse("0b7c1f4e-2d3a-4c5b-8e6f-7a8b9c0d1e2f"), Name: "Stale", Registered: now - 1000}

func seeded(t *testing.T, name string) database.Database {
	t.Helper()
	db := testinfra.OpenSQLite(t, name)
	testinfra.Execute(t, db, testinfra.Sample(now).Transaction())
	return db
}

// withStaleData stores a player that is not part of the sample dataset.
func withStaleData(t *testing.T, db database.Database) {
	t.Helper()
	testinfra.Execute(t, db, database.Single("stale", queries.RegisterBaseUser(stalePlayer)))
}

func TestCopy(t *testing.T) {
	destinations := []struct {
		name string
		open func(t *testing.T) database.Database
	}{
		{"sqlite to sqlite", func(t *testing.T) database.Database { return testinfra.OpenSQLite(t, "destination") }},
		{"sqlite to duckdb", func(t *testing.T) database.Database { return testinfra.OpenDuckDB(t, "destination") }},
	}

	for _, d := range destinations {
		t.Run(d.name, func(t *testing.T) {
			source := seeded(t, "source")
			destination := d.open(t)
			withStaleData(t, destination)

			result, err := backup.Copy(context.Background(), source, destination, backup.Options{})
			if err != nil {
				t.Fatalf("Copy() error = %v", err)
			}
			if result.Skipped {
				t.Fatal("Copy() skipped a populated source")
			}

			want := testinfra.Snapshot(t, source)
			got := testinfra.Snapshot(t, destination)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("destination differs from source:\n got %+v\nwant %+v", got, want)
			}

			names := make([]string, 0, len(result.Stages))
			for _, s := range result.Stages {
				names = append(names, s.Name)
			}
			if !slices.Equal(names, backup.Stages()) {
				t.Errorf("stages = %v, want %v", names, backup.Stages())
			}

			rows := map[string]int{
				backup.StageUsers:            3,
				backup.StageServers:          2,
				backup.StageUserInfo:         4,
				backup.StageWorlds:           3,
				backup.StageSessions:         3,
				backup.StageCommandUse:       4,
				backup.StageProviderBooleans: 2,
				backup.StageWebUsers:         1,
			}
			for stage, want := range rows {
				if s, ok := result.Stage(stage); !ok || s.Rows != want {
					t.Errorf("stage %s rows = %d, want %d", stage, s.Rows, want)
				}
			}
		})
	}
}

func TestCopyCorrelationID(t *testing.T) {
	source := seeded(t, "source")

	t.Run("kept from the caller", func(t *testing.T) {
		ctx := logging.ContextWithCorrelationID(context.Background(), "restore1")
		result, err := backup.Copy(ctx, source, testinfra.OpenSQLite(t, "destination"), backup.Options{})
		if err != nil {
			t.Fatal(err)
		}
		if result.CorrelationID != "restore1" {
			t.Errorf("CorrelationID = %q, want restore1", result.CorrelationID)
		}
	})

	t.Run("generated when missing", func(t *testing.T) {
		result, err := backup.Copy(context.Background(), source, testinfra.OpenSQLite(t, "destination"), backup.Options{})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.CorrelationID) != 8 {
			t.Errorf("CorrelationID = %q, want a generated id", result.CorrelationID)
		}
	})
}

func TestCopyStageOrder(t *testing.T) {
	want := []string{
		"clear", "servers", "users", "user_info", "worlds", "nicknames", "geolocations",
		"command_use", "tps", "ping", "sessions", "web_users", "provider_booleans",
	}
	if got := backup.Stages(); !slices.Equal(got, want) {
		t.Errorf("Stages() = %v, want %v", got, want)
	}
}

func TestCopyEmptySourceIsSkipped(t *testing.T) {
	source := testinfra.OpenSQLite(t, "empty")
	destination := seeded(t, "destination")
	before := testutil.ToFloat64(metrics.BackupsTotal.WithLabelValues("skipped"))

	result, err := backup.Copy(context.Background(), source, destination, backup.Options{})
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if !result.Skipped || len(result.Stages) != 0 {
		t.Errorf("result = %+v, want skipped with no stages", result)
	}
	if n := testinfra.Query(t, destination, queries.BaseUserCount()); n != 3 {
		t.Errorf("destination players = %d, want 3 (untouched)", n)
	}
	if after := testutil.ToFloat64(metrics.BackupsTotal.WithLabelValues("skipped")); after != before+1 {
		t.Errorf("skipped backups = %v, want %v", after, before+1)
	}
}

func TestCopyRequiresOpenDatabases(t *testing.T) {
	open := seeded(t, "open")
	unopened := database.NewSQLite("unopened", database.MemoryPath)

	tests := []struct {
		name        string
		source      database.Database
		destination database.Database
		want        error
	}{
		{"destination not open", open, unopened, database.ErrNotOpen},
		{"source not open", unopened, open, database.ErrNotOpen},
		{"same database", open, open, backup.ErrSameDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := backup.Copy(context.Background(), tt.source, tt.destination, backup.Options{})
			if !errors.Is(err, tt.want) {
				t.Errorf("Copy() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCopyFailureRollsBack(t *testing.T) {
	source := seeded(t, "source")
	destination := testinfra.OpenSQLite(t, "destination")
	withStaleData(t, destination)

	// Losing the source after the sessions stage fails the next stage.
	opts := backup.Options{OnStage: func(s backup.StageResult) {
		if s.Name == backup.StageSessions {
			if err := source.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		}
	}}

	_, err := backup.Copy(context.Background(), source, destination, opts)
	var txErr *database.TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("Copy() error = %v, want a TransactionError", err)
	}
	if txErr.Transaction != backup.TransactionName || txErr.Stage != backup.StageWebUsers {
		t.Errorf("failed at %s/%s, want %s/%s", txErr.Transaction, txErr.Stage, backup.TransactionName, backup.StageWebUsers)
	}
	if !errors.Is(err, database.ErrNotOpen) {
		t.Errorf("Copy() error = %v, want it to wrap ErrNotOpen", err)
	}

	users := testinfra.Query(t, destination, queries.FetchAllBaseUsers())
	if !reflect.DeepEqual(users, []models.BaseUser{stalePlayer}) {
		t.Errorf("destination users = %+v, want only the stale player", users)
	}
}

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	live := seeded(t, "live")
	want := testinfra.Snapshot(t, live)

	for _, backend := range []string{"sqlite", "duckdb"} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.BackupConfig{Backend: backend, Path: filepath.Join(t.TempDir(), "backups", "playerstats."+backend)}

			result, err := backup.Backup(ctx, live, cfg)
			if err != nil {
				t.Fatalf("Backup() error = %v", err)
			}
			if result.Rows() == 0 {
				t.Error("Backup() copied no rows")
			}
			if _, err := os.Stat(cfg.Path); err != nil {
				t.Fatalf("backup file: %v", err)
			}

			if err := backup.Wipe(ctx, live); err != nil {
				t.Fatalf("Wipe() error = %v", err)
			}
			if n := testinfra.Query(t, live, queries.BaseUserCount()); n != 0 {
				t.Fatalf("players after wipe = %d", n)
			}

			if _, err := backup.Restore(ctx, cfg, live); err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			if got := testinfra.Snapshot(t, live); !reflect.DeepEqual(got, want) {
				t.Errorf("restored database differs:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestRestoreMissingFile(t *testing.T) {
	live := seeded(t, "live")
	cfg := config.BackupConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "missing.db")}

	_, err := backup.Restore(context.Background(), cfg, live)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Restore() error = %v, want ErrNotExist", err)
	}
	if n := testinfra.Query(t, live, queries.BaseUserCount()); n != 3 {
		t.Errorf("players = %d, want 3", n)
	}
}

func TestOpenFileRejectsServerBackends(t *testing.T) {
	if _, err := backup.OpenFile(context.Background(), filepath.Join(t.TempDir(), "x"), "postgres"); err == nil {
		t.Error("OpenFile() accepted a postgres backend")
	}
	if _, err := backup.OpenFile(context.Background(), "", "sqlite"); err == nil {
		t.Error("OpenFile() accepted an empty path")
	}
}

func TestScheduler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := backup.NewScheduler(nil, config.BackupConfig{})
		if err := s.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve() error = %v, want ErrDoNotRestart", err)
		}
	})

	t.Run("run once", func(t *testing.T) {
		live := seeded(t, "live")
		cfg := config.BackupConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "scheduled.db"), Interval: time.Hour}
		s := backup.NewScheduler(live, cfg)

		s.RunOnce(context.Background())
		result, err := s.Last()
		if err != nil {
			t.Fatalf("Last() error = %v", err)
		}
		if result == nil || result.Skipped {
			t.Errorf("Last() = %+v, want a completed backup", result)
		}
	})

	t.Run("stops with context", func(t *testing.T) {
		live := seeded(t, "live")
		cfg := config.BackupConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "scheduled.db"), Interval: time.Hour}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := backup.NewScheduler(live, cfg).Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	})
}
