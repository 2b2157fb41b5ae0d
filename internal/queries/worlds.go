// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/database"
)

type worldKey struct {
	server uuid.UUID
	name   string
}

// FetchAllWorldNames returns world names keyed by server uuid.
func FetchAllWorldNames() database.Query[map[uuid.UUID][]string] {
	return database.Named("fetch_all_world_names", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID][]string, error) {
		worlds := map[uuid.UUID][]string{}
		err := conn.QueryPaged(ctx,
			"SELECT id, server_uuid, world_name FROM worlds WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var server uuid.UUID
				var name string
				if err := rows.Scan(&id, &server, &name); err != nil {
					return 0, err
				}
				worlds[server] = append(worlds[server], name)
				return id, nil
			})
		return worlds, err
	})
}

// StoreAllWorldNames inserts the worlds not yet known for their server.
func StoreAllWorldNames(worlds map[uuid.UUID][]string) database.Executable {
	return database.ExecutableFunc(func(ctx context.Context, conn *database.Conn) (bool, error) {
		var keys []worldKey
		for server, names := range worlds {
			for _, name := range lo.Uniq(names) {
				keys = append(keys, worldKey{server: server, name: name})
			}
		}
		_, inserted, err := ensureWorlds(ctx, conn, keys)
		return inserted, err
	})
}

// ensureWorlds inserts missing worlds and returns the local id of every key.
func ensureWorlds(ctx context.Context, conn *database.Conn, keys []worldKey) (map[worldKey]int64, bool, error) {
	if len(keys) == 0 {
		return map[worldKey]int64{}, false, nil
	}
	servers := lo.Uniq(lo.Map(keys, func(k worldKey, _ int) uuid.UUID { return k.server }))

	ids, err := worldIDs(ctx, conn, servers)
	if err != nil {
		return nil, false, err
	}
	missing := lo.Uniq(lo.Filter(keys, func(k worldKey, _ int) bool {
		_, ok := ids[k]
		return !ok
	}))
	if len(missing) == 0 {
		return ids, false, nil
	}

	insert := database.BatchInsert{
		Table:   database.TableWorlds,
		Columns: []string{"world_name", "server_uuid"},
		Rows:    rowsOf(missing, func(k worldKey) []any { return []any{k.name, k.server} }),
	}
	if _, err := insert.Execute(ctx, conn); err != nil {
		return nil, false, err
	}
	ids, err = worldIDs(ctx, conn, servers)
	return ids, true, err
}

func worldIDs(ctx context.Context, conn *database.Conn, servers []uuid.UUID) (map[worldKey]int64, error) {
	ids := map[worldKey]int64{}
	for _, chunk := range lo.Chunk(servers, 500) {
		err := collect(ctx, conn, func(rows *sql.Rows) error {
			var id int64
			var k worldKey
			if err := rows.Scan(&id, &k.server, &k.name); err != nil {
				return err
			}
			// Keep the first id when a world was registered twice.
			if _, ok := ids[k]; !ok {
				ids[k] = id
			}
			return nil
		}, "SELECT id, server_uuid, world_name FROM worlds WHERE "+database.InClause("server_uuid", len(chunk))+" ORDER BY id", anyArgs(chunk)...)
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
