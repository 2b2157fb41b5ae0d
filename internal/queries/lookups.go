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

// inChunk bounds IN lists well below every dialect's parameter limit.
const inChunk = 1000

// UserIDsByUUID maps player uuids to local user ids. Unknown uuids are absent.
func UserIDsByUUID(players []uuid.UUID) database.Query[map[uuid.UUID]int] {
	return func(ctx context.Context, conn *database.Conn) (map[uuid.UUID]int, error) {
		ids := map[uuid.UUID]int{}
		for _, chunk := range lo.Chunk(lo.Uniq(players), inChunk) {
			err := collect(ctx, conn, func(rows *sql.Rows) error {
				var id int
				var player uuid.UUID
				if err := rows.Scan(&id, &player); err != nil {
					return err
				}
				ids[player] = id
				return nil
			}, "SELECT id, uuid FROM users WHERE "+database.InClause("uuid", len(chunk)), anyArgs(chunk)...)
			if err != nil {
				return nil, err
			}
		}
		return ids, nil
	}
}

// AllUserIDs returns every local user id.
func AllUserIDs() database.Query[UserIDs] {
	return database.Named("all_user_ids", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, "SELECT id FROM users")
	})
}

// BannedUserIDs returns users whose ban flag equals banned on any server.
func BannedUserIDs(banned bool) database.Query[UserIDs] {
	return database.Named("banned_user_ids", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, "SELECT DISTINCT u.id FROM users u JOIN user_info ui ON ui.uuid = u.uuid WHERE ui.banned = ?", banned)
	})
}

// OperatorUserIDs returns users whose operator flag equals op on any server.
func OperatorUserIDs(op bool) database.Query[UserIDs] {
	return database.Named("operator_user_ids", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, "SELECT DISTINCT u.id FROM users u JOIN user_info ui ON ui.uuid = u.uuid WHERE ui.opped = ?", op)
	})
}

// UserIDsPlayedBetween returns users with a session overlapping [after, before].
func UserIDsPlayedBetween(after, before int64) database.Query[UserIDs] {
	return database.Named("user_ids_played_between", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, "SELECT DISTINCT u.id FROM users u JOIN sessions s ON s.uuid = u.uuid WHERE "+playedBetween, before, after)
	})
}

// UserIDsRegisteredBetween returns users registered within [after, before].
func UserIDsRegisteredBetween(after, before int64) database.Query[UserIDs] {
	return database.Named("user_ids_registered_between", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, "SELECT id FROM users WHERE registered >= ? AND registered <= ?", after, before)
	})
}

// UserIDsRegisteredOnServers returns users registered on any of the named servers.
func UserIDsRegisteredOnServers(names []string) database.Query[UserIDs] {
	return database.Named("user_ids_registered_on_servers", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, `SELECT DISTINCT u.id FROM users u
			JOIN user_info ui ON ui.uuid = u.uuid
			JOIN servers s ON s.uuid = ui.server_uuid
			WHERE `+database.InClause("s.name", len(names)), anyArgs(names)...)
	})
}

// UserIDsOfLatestGeolocations returns users whose most recent geolocation is one of geos.
func UserIDsOfLatestGeolocations(geos []string) database.Query[UserIDs] {
	return database.Named("user_ids_of_latest_geolocations", func(ctx context.Context, conn *database.Conn) (UserIDs, error) {
		return userIDs(ctx, conn, `SELECT DISTINCT u.id FROM users u
			JOIN (`+latestGeolocations+`) l ON l.uuid = u.uuid
			WHERE `+database.InClause("l.geolocation", len(geos)), anyArgs(geos)...)
	})
}
