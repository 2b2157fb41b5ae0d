// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
)

var pingColumns = []string{"uuid", "server_uuid", "date", "max_ping", "min_ping", "avg_ping"}

func pingRow(p models.Ping) []any {
	return []any{p.PlayerUUID, p.ServerUUID, p.Date, p.Max, p.Min, p.Avg}
}

// FetchAllPing returns every ping sample keyed by player uuid.
func FetchAllPing() database.Query[map[uuid.UUID][]models.Ping] {
	return database.Named("fetch_all_ping", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID][]models.Ping, error) {
		pings := map[uuid.UUID][]models.Ping{}
		err := conn.QueryPaged(ctx, "SELECT id, uuid, server_uuid, date, max_ping, min_ping, avg_ping FROM ping WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var p models.Ping
				if err := rows.Scan(&id, &p.PlayerUUID, &p.ServerUUID, &p.Date, &p.Max, &p.Min, &p.Avg); err != nil {
					return 0, err
				}
				pings[p.PlayerUUID] = append(pings[p.PlayerUUID], p)
				return id, nil
			})
		return pings, err
	})
}

// StoreAllPing inserts ping samples of every player.
func StoreAllPing(pings map[uuid.UUID][]models.Ping) database.Executable {
	var list []models.Ping
	for _, perPlayer := range pings {
		list = append(list, perPlayer...)
	}
	return database.BatchInsert{Table: database.TablePing, Columns: pingColumns, Rows: rowsOf(list, pingRow)}
}

// StorePing inserts one ping sample.
func StorePing(p models.Ping) database.Executable {
	return database.BatchInsert{Table: database.TablePing, Columns: pingColumns, Rows: rowsOf([]models.Ping{p}, pingRow)}
}
