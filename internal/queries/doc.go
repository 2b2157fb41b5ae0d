// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

// Package queries holds the concrete reads and writes against the Playerstats
// schema: bulk fetch and store operations used by backup and restore,
// server-side aggregates, single-entity event writes, and the id lookups the
// filter engine composes.
//
// Fetch functions return database.Query values and run with
// database.RunQuery. Store functions return database.Executable values and
// run inside a database.Transaction. Every store is a no-op on empty input.
//
// Bulk fetches return values free of backend-local ids so they can be
// stored into any other backend; stores never write the id column.
package queries
