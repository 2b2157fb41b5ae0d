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

// FetchAllServers returns every server keyed by uuid.
func FetchAllServers() database.Query[map[uuid.UUID]models.Server] {
	return database.Named("fetch_all_servers", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID]models.Server, error) {
		servers := map[uuid.UUID]models.Server{}
		err := conn.QueryPaged(ctx,
			"SELECT id, uuid, name, web_address, is_installed, max_players, is_proxy FROM servers WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var s models.Server
				var web sql.NullString
				if err := rows.Scan(&id, &s.UUID, &s.Name, &web, &s.Installed, &s.MaxPlayers, &s.IsProxy); err != nil {
					return 0, err
				}
				s.WebAddress = web.String
				servers[s.UUID] = s
				return id, nil
			})
		return servers, err
	})
}

// StoreAllServers inserts servers.
func StoreAllServers(servers map[uuid.UUID]models.Server) database.Executable {
	list := make([]models.Server, 0, len(servers))
	for _, s := range servers {
		list = append(list, s)
	}
	return database.BatchInsert{
		Table:   database.TableServers,
		Columns: []string{"uuid", "name", "web_address", "is_installed", "max_players", "is_proxy"},
		Rows: rowsOf(list, func(s models.Server) []any {
			return []any{s.UUID, s.Name, nullString(s.WebAddress), s.Installed, s.MaxPlayers, s.IsProxy}
		}),
	}
}

// RegisterServer inserts or updates one server by uuid.
func RegisterServer(s models.Server) database.Executable {
	return upsert(
		database.Statement{
			SQL:  "UPDATE servers SET name = ?, web_address = ?, is_installed = ?, max_players = ?, is_proxy = ? WHERE uuid = ?",
			Args: []any{s.Name, nullString(s.WebAddress), s.Installed, s.MaxPlayers, s.IsProxy, s.UUID},
		},
		database.Statement{
			SQL:  "INSERT INTO servers (uuid, name, web_address, is_installed, max_players, is_proxy) VALUES (?, ?, ?, ?, ?, ?)",
			Args: []any{s.UUID, s.Name, nullString(s.WebAddress), s.Installed, s.MaxPlayers, s.IsProxy},
		},
	)
}

// ServerNames lists the names of all servers, sorted.
func ServerNames() database.Query[[]string] {
	return func(ctx context.Context, conn *database.Conn) ([]string, error) {
		var names []string
		err := collect(ctx, conn, func(rows *sql.Rows) error {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
			return nil
		}, "SELECT DISTINCT name FROM servers ORDER BY name")
		return names, err
	}
}

// ServerUserCounts returns the number of registered users per server.
func ServerUserCounts() database.Query[map[uuid.UUID]int] {
	return database.Named("server_user_counts", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID]int, error) {
		counts := map[uuid.UUID]int{}
		err := collect(ctx, conn, func(rows *sql.Rows) error {
			var server uuid.UUID
			var n int
			if err := rows.Scan(&server, &n); err != nil {
				return err
			}
			counts[server] = n
			return nil
		}, "SELECT server_uuid, COUNT(*) FROM user_info GROUP BY server_uuid")
		return counts, err
	})
}
