// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
)

type commandRow struct {
	server  uuid.UUID
	command string
	times   int
}

// FetchAllCommandUsage returns command counts keyed by server uuid.
func FetchAllCommandUsage() database.Query[map[uuid.UUID]models.CommandUse] {
	return database.Named("fetch_all_command_usage", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID]models.CommandUse, error) {
		usage := map[uuid.UUID]models.CommandUse{}
		err := conn.QueryPaged(ctx,
			"SELECT id, server_uuid, command_name, times_used FROM commandusages WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var r commandRow
				if err := rows.Scan(&id, &r.server, &r.command, &r.times); err != nil {
					return 0, err
				}
				if usage[r.server] == nil {
					usage[r.server] = models.CommandUse{}
				}
				usage[r.server][r.command] += r.times
				return id, nil
			})
		return usage, err
	})
}

// StoreAllCommandUsage inserts command counts of every server.
func StoreAllCommandUsage(usage map[uuid.UUID]models.CommandUse) database.Executable {
	var list []commandRow
	for server, commands := range usage {
		for command, times := range commands {
			list = append(list, commandRow{server: server, command: strings.ToLower(command), times: times})
		}
	}
	return database.BatchInsert{
		Table:   database.TableCommandUsage,
		Columns: []string{"server_uuid", "command_name", "times_used"},
		Rows:    rowsOf(list, func(r commandRow) []any { return []any{r.server, r.command, r.times} }),
	}
}

// IncrementCommandUse counts one use of command on server.
func IncrementCommandUse(server uuid.UUID, command string) database.Executable {
	command = strings.ToLower(strings.TrimSpace(command))
	return upsert(
		database.Statement{
			SQL:  "UPDATE commandusages SET times_used = times_used + 1 WHERE server_uuid = ? AND command_name = ?",
			Args: []any{server, command},
		},
		database.Statement{
			SQL:  "INSERT INTO commandusages (server_uuid, command_name, times_used) VALUES (?, ?, 1)",
			Args: []any{server, command},
		},
	)
}

// CommandUsageCounts returns the command counts of one server.
func CommandUsageCounts(server uuid.UUID) database.Query[models.CommandUse] {
	return database.Named("command_usage_counts", func(ctx context.Context, conn *database.Conn) (models.CommandUse, error) {
		usage := models.CommandUse{}
		err := collect(ctx, conn, func(rows *sql.Rows) error {
			var command string
			var times int
			if err := rows.Scan(&command, &times); err != nil {
				return err
			}
			usage[command] = times
			return nil
		}, "SELECT command_name, CAST(SUM(times_used) AS BIGINT) FROM commandusages WHERE server_uuid = ? GROUP BY command_name", server)
		return usage, err
	})
}
