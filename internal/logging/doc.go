// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package logging provides centralized zerolog-based logging for Playerstats.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Str("database", name).Msg("Database opened")
	logging.Error().Err(err).Str("stage", stage).Msg("Backup stage failed")

	// With context (correlation ID)
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logging.Ctx(ctx).Info().Msg("Copy started")

# slog Bridge

Suture reports supervisor events through log/slog (sutureslog). NewSlogHandler
forwards those records to zerolog so everything lands in one stream:

	handler := logging.NewSlogHandler()
	tree, err := supervisor.NewSupervisorTree(slog.New(handler), cfg)

# Conventions

Always terminate log chains with .Msg() or .Send(), and prefer structured
fields over formatted messages. Common field names: database, backend,
transaction, stage, rows, duration, priority.
*/
package logging
