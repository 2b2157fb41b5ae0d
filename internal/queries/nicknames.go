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

// FetchAllNicknames returns nicknames keyed by player uuid.
func FetchAllNicknames() database.Query[map[uuid.UUID][]models.Nickname] {
	return database.Named("fetch_all_nicknames", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID][]models.Nickname, error) {
		nicknames := map[uuid.UUID][]models.Nickname{}
		err := conn.QueryPaged(ctx, "SELECT id, uuid, server_uuid, nickname, last_used FROM nicknames WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var n models.Nickname
				if err := rows.Scan(&id, &n.PlayerUUID, &n.ServerUUID, &n.Name, &n.LastUsed); err != nil {
					return 0, err
				}
				nicknames[n.PlayerUUID] = append(nicknames[n.PlayerUUID], n)
				return id, nil
			})
		return nicknames, err
	})
}

// StoreAllNicknames inserts nicknames of every player.
func StoreAllNicknames(nicknames map[uuid.UUID][]models.Nickname) database.Executable {
	var list []models.Nickname
	for _, perPlayer := range nicknames {
		list = append(list, perPlayer...)
	}
	return database.BatchInsert{
		Table:   database.TableNicknames,
		Columns: []string{"uuid", "server_uuid", "nickname", "last_used"},
		Rows: rowsOf(list, func(n models.Nickname) []any {
			return []any{n.PlayerUUID, n.ServerUUID, n.Name, n.LastUsed}
		}),
	}
}

// StoreNickname records a nickname, refreshing last_used when it is already known.
func StoreNickname(n models.Nickname) database.Executable {
	return upsert(
		database.Statement{
			SQL:  "UPDATE nicknames SET last_used = ? WHERE uuid = ? AND server_uuid = ? AND nickname = ?",
			Args: []any{n.LastUsed, n.PlayerUUID, n.ServerUUID, n.Name},
		},
		database.Statement{
			SQL:  "INSERT INTO nicknames (uuid, server_uuid, nickname, last_used) VALUES (?, ?, ?, ?)",
			Args: []any{n.PlayerUUID, n.ServerUUID, n.Name, n.LastUsed},
		},
	)
}
