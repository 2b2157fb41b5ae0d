// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) step(name string) Executable {
	return ExecutableFunc(func(context.Context, *Conn) (bool, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.order = append(r.order, name)
		return true, nil
	})
}

func TestPoolPrefersCritical(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 1, QueueSize: 16})
	db := setupSQLite(t, WithPool(pool))
	rec := &recorder{}

	// Queue before the workers start so the dispatch order is decided by priority alone.
	var handles []*Handle
	for _, name := range []string{"sample-1", "sample-2", "sample-3"} {
		handles = append(handles, db.ExecuteTransaction(Single(name, rec.step(name)), NonCritical))
	}
	handles = append(handles, db.ExecuteTransaction(Single("register", rec.step("register")), Critical))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Serve(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer waitCancel()
	for _, h := range handles {
		if err := h.Wait(waitCtx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}

	want := []string{"register", "sample-1", "sample-2", "sample-3"}
	if len(rec.order) != len(want) {
		t.Fatalf("order = %v, want %v", rec.order, want)
	}
	for i := range want {
		if rec.order[i] != want[i] {
			t.Errorf("order = %v, want %v", rec.order, want)
			break
		}
	}
}

func TestPoolStopFailsQueued(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 1, QueueSize: 4})
	db := setupSQLite(t, WithPool(pool))

	queued := db.ExecuteTransaction(Single("queued", insertServer("q")), NonCritical)
	pool.Stop()

	if err := queued.Err(); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("queued transaction error = %v, want ErrPoolStopped", err)
	}
	late := db.ExecuteTransaction(Single("late", insertServer("l")), Critical)
	if err := late.Err(); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("late transaction error = %v, want ErrPoolStopped", err)
	}
}

func TestPoolRateLimitsNonCritical(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 1, QueueSize: 8, NonCriticalRate: 1000})
	if pool.limiter == nil {
		t.Fatal("limiter not configured")
	}
	db := setupSQLite(t, WithPool(pool))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = pool.Serve(ctx) }()

	h := db.ExecuteTransaction(Single("sample", insertServer("s")), NonCritical)
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer waitCancel()
	if err := h.Wait(waitCtx); err != nil {
		t.Fatal(err)
	}
	if got := countRows(t, db, TableServers); got != 1 {
		t.Errorf("servers = %d, want 1", got)
	}
}
