// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package metrics provides Prometheus instrumentation for Playerstats.

All collectors are registered with the default registry through promauto and
are exposed by cmd/playerstats on /metrics.

Metric families:

  - db_*: read query latency and errors, transaction outcomes, batch round trips
  - pool_*: transaction queue depth per priority and busy workers
  - backup_*: per-stage copy duration and copied rows
  - filter_evaluations_total, activity_index_computations_total
  - cache_hits_total / cache_misses_total
  - circuit_breaker_*: state of the networked backend breaker

Usage:

	start := time.Now()
	rows, err := ...
	metrics.RecordDBQuery("sqlite", "fetch_all_sessions", time.Since(start), err)
*/
package metrics
