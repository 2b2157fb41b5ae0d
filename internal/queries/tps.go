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

var tpsColumns = []string{"server_uuid", "date", "tps", "players_online", "cpu_usage", "ram_usage", "entities", "chunks_loaded", "free_disk_space"}

func tpsRow(t models.TPS) []any {
	return []any{t.ServerUUID, t.Date, t.TicksPerSecond, t.PlayersOnline, t.CPUUsage, t.UsedMemory, t.Entities, t.ChunksLoaded, t.FreeDiskSpace}
}

// FetchAllTPS returns every performance sample keyed by server uuid.
func FetchAllTPS() database.Query[map[uuid.UUID][]models.TPS] {
	return database.Named("fetch_all_tps", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID][]models.TPS, error) {
		samples := map[uuid.UUID][]models.TPS{}
		err := conn.QueryPaged(ctx,
			"SELECT id, server_uuid, date, tps, players_online, cpu_usage, ram_usage, entities, chunks_loaded, free_disk_space FROM tps WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var t models.TPS
				if err := rows.Scan(&id, &t.ServerUUID, &t.Date, &t.TicksPerSecond, &t.PlayersOnline, &t.CPUUsage,
					&t.UsedMemory, &t.Entities, &t.ChunksLoaded, &t.FreeDiskSpace); err != nil {
					return 0, err
				}
				samples[t.ServerUUID] = append(samples[t.ServerUUID], t)
				return id, nil
			})
		return samples, err
	})
}

// StoreAllTPS inserts samples of every server.
func StoreAllTPS(samples map[uuid.UUID][]models.TPS) database.Executable {
	var list []models.TPS
	for _, perServer := range samples {
		list = append(list, perServer...)
	}
	return database.BatchInsert{Table: database.TableTPS, Columns: tpsColumns, Rows: rowsOf(list, tpsRow)}
}

// StoreTPS inserts one sample.
func StoreTPS(t models.TPS) database.Executable {
	return database.BatchInsert{Table: database.TableTPS, Columns: tpsColumns, Rows: rowsOf([]models.TPS{t}, tpsRow)}
}
