// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"
	"database/sql"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
)

// BooleanProvider identifies one boolean value provided by a plugin on a server.
type BooleanProvider struct {
	Server   string `json:"server"`
	Plugin   string `json:"plugin"`
	Provider string `json:"provider"`
}

// FetchAllProviderBooleans returns every stored plugin boolean.
func FetchAllProviderBooleans() database.Query[[]models.ProviderBoolean] {
	return database.Named("fetch_all_provider_booleans", func(ctx context.Context, conn *database.Conn) ([]models.ProviderBoolean, error) {
		var values []models.ProviderBoolean
		err := conn.QueryPaged(ctx,
			"SELECT id, uuid, server_uuid, plugin_name, provider_name, boolean_value FROM extension_user_booleans WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var v models.ProviderBoolean
				if err := rows.Scan(&id, &v.PlayerUUID, &v.ServerUUID, &v.PluginName, &v.ProviderName, &v.Value); err != nil {
					return 0, err
				}
				values = append(values, v)
				return id, nil
			})
		return values, err
	})
}

// StoreProviderBooleans inserts plugin booleans.
func StoreProviderBooleans(values []models.ProviderBoolean) database.Executable {
	return database.BatchInsert{
		Table:   database.TableProviderBooleans,
		Columns: []string{"uuid", "server_uuid", "plugin_name", "provider_name", "boolean_value"},
		Rows: rowsOf(values, func(v models.ProviderBoolean) []any {
			return []any{v.PlayerUUID, v.ServerUUID, v.PluginName, v.ProviderName, v.Value}
		}),
	}
}

// StoreProviderBoolean sets one player's value for a provider.
func StoreProviderBoolean(v models.ProviderBoolean) database.Executable {
	return upsert(
		database.Statement{
			SQL: `UPDATE extension_user_booleans SET boolean_value = ?
				WHERE uuid = ? AND server_uuid = ? AND plugin_name = ? AND provider_name = ?`,
			Args: []any{v.Value, v.PlayerUUID, v.ServerUUID, v.PluginName, v.ProviderName},
		},
		database.Statement{
			SQL:  "INSERT INTO extension_user_booleans (uuid, server_uuid, plugin_name, provider_name, boolean_value) VALUES (?, ?, ?, ?, ?)",
			Args: []any{v.PlayerUUID, v.ServerUUID, v.PluginName, v.ProviderName, v.Value},
		},
	)
}

// BooleanProviders lists every (server name, plugin, provider) with stored booleans.
func BooleanProviders() database.Query[[]BooleanProvider] {
	return func(ctx context.Context, conn *database.Conn) ([]BooleanProvider, error) {
		var providers []BooleanProvider
		err := collect(ctx, conn, func(rows *sql.Rows) error {
			var p BooleanProvider
			if err := rows.Scan(&p.Server, &p.Plugin, &p.Provider); err != nil {
				return err
			}
			providers = append(providers, p)
			return nil
		}, `SELECT DISTINCT s.name, e.plugin_name, e.provider_name
			FROM extension_user_booleans e JOIN servers s ON s.uuid = e.server_uuid
			ORDER BY s.name, e.plugin_name, e.provider_name`)
		return providers, err
	}
}

// UserIDsWithProviderBoolean returns users whose provider value equals value.
func UserIDsWithProviderBoolean(p BooleanProvider, value bool) database.Query[UserIDs] {
	return database.Named("user_ids_with_provider_boolean", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, `SELECT DISTINCT u.id FROM users u
			JOIN extension_user_booleans e ON e.uuid = u.uuid
			JOIN servers s ON s.uuid = e.server_uuid
			WHERE s.name = ? AND e.plugin_name = ? AND e.provider_name = ? AND e.boolean_value = ?`,
			p.Server, p.Plugin, p.Provider, value)
	})
}
