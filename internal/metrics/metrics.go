// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of read queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "query"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed read queries",
		},
		[]string{"backend", "query", "error_type"},
	)

	DBTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_transactions_total",
			Help: "Total number of executed transactions by outcome",
		},
		[]string{"backend", "transaction", "outcome"}, // outcome: "committed", "rolled_back", "rejected"
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_transaction_duration_seconds",
			Help:    "Duration of transactions from begin to commit or rollback",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"backend", "transaction"},
	)

	DBBatchRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_batch_rows_total",
			Help: "Total number of rows written through batch statements",
		},
		[]string{"table"},
	)

	DBBatchStatements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_batch_statements_total",
			Help: "Total number of batch round trips",
		},
		[]string{"table"},
	)

	// Worker pool metrics
	PoolQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pool_queue_depth",
			Help: "Transactions waiting for a worker",
		},
		[]string{"priority"},
	)

	PoolWorkersBusy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_workers_busy",
			Help: "Workers currently executing a transaction",
		},
	)

	// Backup Metrics
	BackupStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_stage_duration_seconds",
			Help:    "Duration of each copy stage in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"stage"},
	)

	BackupRowsCopied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_rows_copied_total",
			Help: "Total number of rows copied by stage",
		},
		[]string{"stage"},
	)

	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_copies_total",
			Help: "Total number of copy operations by outcome",
		},
		[]string{"outcome"}, // "completed", "skipped", "failed"
	)

	// Filter Metrics
	FilterEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_evaluations_total",
			Help: "Total number of filter evaluations by result variant",
		},
		[]string{"kind", "result"}, // result: "everyone", "ids", "error"
	)

	ActivityIndexComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activity_index_computations_total",
			Help: "Total number of per-player activity index computations",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a read query metric.
func RecordDBQuery(backend, query string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(backend, query).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(backend, query, errorType(err)).Inc()
	}
}

// RecordTransaction records the outcome and duration of a transaction.
func RecordTransaction(backend, transaction, outcome string, duration time.Duration) {
	DBTransactionsTotal.WithLabelValues(backend, transaction, outcome).Inc()
	DBTransactionDuration.WithLabelValues(backend, transaction).Observe(duration.Seconds())
}

// RecordBatch records one batch round trip writing rows rows into table.
func RecordBatch(table string, rows int) {
	DBBatchStatements.WithLabelValues(table).Inc()
	DBBatchRows.WithLabelValues(table).Add(float64(rows))
}

// RecordBackupStage records the duration and row count of one copy stage.
func RecordBackupStage(stage string, rows int, duration time.Duration) {
	BackupStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	BackupRowsCopied.WithLabelValues(stage).Add(float64(rows))
}

// RecordFilter records a filter evaluation.
func RecordFilter(kind, result string) {
	FilterEvaluations.WithLabelValues(kind, result).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// errorType keeps the error label low-cardinality.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "backend"
	}
}
