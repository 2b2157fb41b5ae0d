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

// FetchAllWebUsers returns every web user with its password hash.
func FetchAllWebUsers() database.Query[[]models.WebUser] {
	return database.Named("fetch_all_web_users", func(ctx context.Context, conn *database.Conn) ([]models.WebUser, error) {
		var users []models.WebUser
		err := conn.QueryPaged(ctx,
			"SELECT id, username, salted_pass_hash, permission_level FROM security WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var u models.WebUser
				if err := rows.Scan(&id, &u.Name, &u.PasswordHash, &u.PermissionLevel); err != nil {
					return 0, err
				}
				users = append(users, u)
				return id, nil
			})
		return users, err
	})
}

// StoreAllWebUsers inserts web users.
func StoreAllWebUsers(users []models.WebUser) database.Executable {
	return database.BatchInsert{
		Table:   database.TableWebUsers,
		Columns: []string{"username", "salted_pass_hash", "permission_level"},
		Rows: rowsOf(users, func(u models.WebUser) []any {
			return []any{u.Name, u.PasswordHash, u.PermissionLevel}
		}),
	}
}

// RegisterWebUser inserts a web user or replaces the hash and permission of an existing one.
func RegisterWebUser(u models.WebUser) database.Executable {
	return upsert(
		database.Statement{
			SQL:  "UPDATE security SET salted_pass_hash = ?, permission_level = ? WHERE username = ?",
			Args: []any{u.PasswordHash, u.PermissionLevel, u.Name},
		},
		database.Statement{
			SQL:  "INSERT INTO security (username, salted_pass_hash, permission_level) VALUES (?, ?, ?)",
			Args: []any{u.Name, u.PasswordHash, u.PermissionLevel},
		},
	)
}
