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

// FetchAllBaseUsers returns every user.
func FetchAllBaseUsers() database.Query[[]models.BaseUser] {
	return database.Named("fetch_all_base_users", func(ctx context.Context, conn *database.Conn) ([]models.BaseUser, error) {
		var users []models.BaseUser
		err := conn.QueryPaged(ctx, "SELECT id, uuid, name, registered, times_kicked FROM users WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var u models.BaseUser
				if err := rows.Scan(&id, &u.UUID, &u.Name, &u.Registered, &u.TimesKicked); err != nil {
					return 0, err
				}
				users = append(users, u)
				return id, nil
			})
		return users, err
	})
}

// StoreAllBaseUsers inserts users.
func StoreAllBaseUsers(users []models.BaseUser) database.Executable {
	return database.BatchInsert{
		Table:   database.TableUsers,
		Columns: []string{"uuid", "name", "registered", "times_kicked"},
		Rows: rowsOf(users, func(u models.BaseUser) []any {
			return []any{u.UUID, u.Name, u.Registered, u.TimesKicked}
		}),
	}
}

// RegisterBaseUser inserts a user, or renames an existing one. The original
// registration date is kept.
func RegisterBaseUser(u models.BaseUser) database.Executable {
	return upsert(
		database.Statement{SQL: "UPDATE users SET name = ? WHERE uuid = ?", Args: []any{u.Name, u.UUID}},
		database.Statement{
			SQL:  "INSERT INTO users (uuid, name, registered, times_kicked) VALUES (?, ?, ?, ?)",
			Args: []any{u.UUID, u.Name, u.Registered, u.TimesKicked},
		},
	)
}

// IncrementKicked adds one to a player's kick count.
func IncrementKicked(player uuid.UUID) database.Executable {
	return database.Statement{SQL: "UPDATE users SET times_kicked = times_kicked + 1 WHERE uuid = ?", Args: []any{player}}
}

// BaseUserCount returns the number of users.
func BaseUserCount() database.Query[int] {
	return database.Named("base_user_count", func(ctx context.Context, conn *database.Conn) (int, error) {
		var n int
		err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
		return n, err
	})
}

// FetchAllUserInfo returns per-server registrations keyed by server uuid.
func FetchAllUserInfo() database.Query[map[uuid.UUID][]models.UserInfo] {
	return database.Named("fetch_all_user_info", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID][]models.UserInfo, error) {
		infos := map[uuid.UUID][]models.UserInfo{}
		err := conn.QueryPaged(ctx, "SELECT id, uuid, server_uuid, registered, banned, opped, join_address FROM user_info WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var info models.UserInfo
				var join sql.NullString
				if err := rows.Scan(&id, &info.PlayerUUID, &info.ServerUUID, &info.Registered, &info.Banned, &info.Operator, &join); err != nil {
					return 0, err
				}
				info.JoinAddress = join.String
				infos[info.ServerUUID] = append(infos[info.ServerUUID], info)
				return id, nil
			})
		return infos, err
	})
}

// StoreAllUserInfo inserts registrations of every server.
func StoreAllUserInfo(infos map[uuid.UUID][]models.UserInfo) database.Executable {
	var list []models.UserInfo
	for _, perServer := range infos {
		list = append(list, perServer...)
	}
	return database.BatchInsert{
		Table:   database.TableUserInfo,
		Columns: []string{"uuid", "server_uuid", "registered", "banned", "opped", "join_address"},
		Rows: rowsOf(list, func(i models.UserInfo) []any {
			return []any{i.PlayerUUID, i.ServerUUID, i.Registered, i.Banned, i.Operator, nullString(i.JoinAddress)}
		}),
	}
}

// RegisterUserInfo registers a player on a server. An existing registration
// only has its join address updated.
func RegisterUserInfo(info models.UserInfo) database.Executable {
	return upsert(
		database.Statement{
			SQL:  "UPDATE user_info SET join_address = ? WHERE uuid = ? AND server_uuid = ?",
			Args: []any{nullString(info.JoinAddress), info.PlayerUUID, info.ServerUUID},
		},
		database.Statement{
			SQL:  "INSERT INTO user_info (uuid, server_uuid, registered, banned, opped, join_address) VALUES (?, ?, ?, ?, ?, ?)",
			Args: []any{info.PlayerUUID, info.ServerUUID, info.Registered, info.Banned, info.Operator, nullString(info.JoinAddress)},
		},
	)
}

// UpdateBanStatus sets the banned flag of a player on a server.
func UpdateBanStatus(player, server uuid.UUID, banned bool) database.Executable {
	return database.Statement{
		SQL:  "UPDATE user_info SET banned = ? WHERE uuid = ? AND server_uuid = ?",
		Args: []any{banned, player, server},
	}
}

// UpdateOperatorStatus sets the operator flag of a player on a server.
func UpdateOperatorStatus(player, server uuid.UUID, operator bool) database.Executable {
	return database.Statement{
		SQL:  "UPDATE user_info SET opped = ? WHERE uuid = ? AND server_uuid = ?",
		Args: []any{operator, player, server},
	}
}
