// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

// Package backup copies the complete contents of one database into another.
//
// A copy is a single destination transaction named "backup-copy". The
// destination is cleared first, then every entity is fetched from the source
// and stored in dependency order:
//
//	clear -> servers -> users -> user_info -> worlds -> nicknames ->
//	geolocations -> command_use -> tps -> ping -> sessions -> web_users ->
//	provider_booleans
//
// Entities travel by UUID only, so local ids may differ between source and
// destination. Any failing stage rolls the destination back to its previous
// contents and the error is a *database.TransactionError naming the stage.
//
// Backups and restores are copies against an embedded SQLite or DuckDB file:
//
//	result, err := backup.Backup(ctx, live, cfg.Backup)
//	result, err := backup.Restore(ctx, cfg.Backup, live)
//
// A source without players is never copied: the destination is left
// untouched and the Result is marked Skipped.
//
// Scheduler runs Backup periodically under the supervisor tree.
package backup
