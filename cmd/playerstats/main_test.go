// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/supervisor"
	"github.com/tomtom215/playerstats/internal/testinfra"
)

func TestDrainFailsQueuedTransactions(t *testing.T) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		t.Fatal(err)
	}
	// The pool never serves, so the transaction stays queued until drain.
	pool := database.NewPool(database.PoolConfig{Workers: 1, QueueSize: 4})
	db := testinfra.OpenSQLite(t, "drain", database.WithPool(pool))
	queued := db.ExecuteTransaction(database.Single("queued", database.Statement{SQL: "SELECT 1"}), database.NonCritical)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("Serve() = %v", err)
	}

	drain(tree, pool)

	if err := queued.Err(); !errors.Is(err, database.ErrPoolStopped) {
		t.Errorf("queued transaction error = %v, want ErrPoolStopped", err)
	}
	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(unstopped) != 0 {
		t.Errorf("unstopped = %v, want none", unstopped)
	}
}
