// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		err       error
		errorType string
	}{
		{name: "success", query: "test_success", err: nil},
		{name: "backend error", query: "test_backend", err: errors.New("disk I/O error"), errorType: "backend"},
		{name: "canceled", query: "test_canceled", err: fmt.Errorf("scan: %w", context.Canceled), errorType: "canceled"},
		{name: "timeout", query: "test_timeout", err: context.DeadlineExceeded, errorType: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery("sqlite", tt.query, 5*time.Millisecond, tt.err)

			if tt.err == nil {
				return
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("sqlite", tt.query, tt.errorType))
			if got != 1 {
				t.Errorf("expected 1 error for %s, got %v", tt.errorType, got)
			}
		})
	}
}

func TestRecordTransaction(t *testing.T) {
	before := testutil.ToFloat64(DBTransactionsTotal.WithLabelValues("duckdb", "test-tx", "committed"))
	RecordTransaction("duckdb", "test-tx", "committed", 20*time.Millisecond)
	RecordTransaction("duckdb", "test-tx", "committed", 30*time.Millisecond)

	after := testutil.ToFloat64(DBTransactionsTotal.WithLabelValues("duckdb", "test-tx", "committed"))
	if after-before != 2 {
		t.Errorf("expected 2 committed transactions, got %v", after-before)
	}
}

func TestRecordBatch(t *testing.T) {
	RecordBatch("test_table", 250)
	RecordBatch("test_table", 50)

	if got := testutil.ToFloat64(DBBatchRows.WithLabelValues("test_table")); got != 300 {
		t.Errorf("expected 300 rows, got %v", got)
	}
	if got := testutil.ToFloat64(DBBatchStatements.WithLabelValues("test_table")); got != 2 {
		t.Errorf("expected 2 statements, got %v", got)
	}
}

func TestRecordBackupStage(t *testing.T) {
	RecordBackupStage("test_stage", 12, time.Second)
	if got := testutil.ToFloat64(BackupRowsCopied.WithLabelValues("test_stage")); got != 12 {
		t.Errorf("expected 12 rows copied, got %v", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	RecordCacheLookup("test_cache", true)
	RecordCacheLookup("test_cache", false)
	RecordCacheLookup("test_cache", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test_cache")); got != 1 {
		t.Errorf("expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test_cache")); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
}

func TestRecordFilter(t *testing.T) {
	RecordFilter("test_kind", "everyone")
	if got := testutil.ToFloat64(FilterEvaluations.WithLabelValues("test_kind", "everyone")); got != 1 {
		t.Errorf("expected 1 evaluation, got %v", got)
	}
}
