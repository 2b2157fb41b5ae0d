// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
)

// Sessions groups sessions by server uuid, then player uuid.
type Sessions map[uuid.UUID]map[uuid.UUID][]models.Session

// Flatten returns every session.
func (s Sessions) Flatten() []models.Session {
	var list []models.Session
	for _, perPlayer := range s {
		for _, sessions := range perPlayer {
			list = append(list, sessions...)
		}
	}
	return list
}

// Add appends a session under its server and player.
func (s Sessions) Add(session models.Session) {
	perPlayer, ok := s[session.ServerUUID]
	if !ok {
		perPlayer = map[uuid.UUID][]models.Session{}
		s[session.ServerUUID] = perPlayer
	}
	perPlayer[session.PlayerUUID] = append(perPlayer[session.PlayerUUID], session)
}

// FetchAllSessions returns every session with its kills and world times.
func FetchAllSessions() database.Query[Sessions] {
	return database.Named("fetch_all_sessions", func(ctx context.Context, conn *database.Conn) (Sessions, error) {
		byID := map[int64]*models.Session{}
		var order []int64

		err := conn.QueryPaged(ctx,
			"SELECT id, uuid, server_uuid, session_start, session_end, mob_kills, deaths, afk_time FROM sessions WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				s := &models.Session{}
				if err := rows.Scan(&id, &s.PlayerUUID, &s.ServerUUID, &s.Start, &s.End, &s.MobKills, &s.Deaths, &s.AFKTime); err != nil {
					return 0, err
				}
				byID[id] = s
				order = append(order, id)
				return id, nil
			})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch sessions: %w", err)
		}

		err = conn.QueryPaged(ctx,
			`SELECT wt.id, wt.session_id, w.world_name, wt.survival_time, wt.creative_time, wt.adventure_time, wt.spectator_time
			FROM world_times wt JOIN worlds w ON w.id = wt.world_id
			WHERE wt.id > ? ORDER BY wt.id`, nil,
			func(rows *sql.Rows) (int64, error) {
				var id, sessionID int64
				var world string
				var times [4]int64
				if err := rows.Scan(&id, &sessionID, &world, &times[0], &times[1], &times[2], &times[3]); err != nil {
					return 0, err
				}
				if s, ok := byID[sessionID]; ok {
					if s.WorldTimes == nil {
						s.WorldTimes = models.WorldTimes{}
					}
					for i, mode := range models.GameModes {
						if times[i] > 0 {
							s.WorldTimes.Add(world, mode, times[i])
						}
					}
				}
				return id, nil
			})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch world times: %w", err)
		}

		err = conn.QueryPaged(ctx,
			`SELECT k.id, k.session_id, k.killer_uuid, k.victim_uuid, k.server_uuid, k.weapon, k.date, u.name
			FROM kills k LEFT JOIN users u ON u.uuid = k.victim_uuid
			WHERE k.id > ? ORDER BY k.id`, nil,
			func(rows *sql.Rows) (int64, error) {
				var id, sessionID int64
				var k models.PlayerKill
				var victimName sql.NullString
				if err := rows.Scan(&id, &sessionID, &k.KillerUUID, &k.VictimUUID, &k.ServerUUID, &k.Weapon, &k.Date, &victimName); err != nil {
					return 0, err
				}
				k.VictimName = victimName.String
				if s, ok := byID[sessionID]; ok {
					s.Kills = append(s.Kills, k)
				}
				return id, nil
			})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch kills: %w", err)
		}

		sessions := Sessions{}
		for _, id := range order {
			sessions.Add(*byID[id])
		}
		return sessions, nil
	})
}

// StoreAllSessions inserts sessions with their world times and kills:
// sessions batch, id lookup, missing worlds, world times batch, kills batch.
func StoreAllSessions(sessions Sessions) database.Executable {
	return storeSessions(sessions.Flatten())
}

// StoreSession stores one finished session.
func StoreSession(s models.Session) database.Executable {
	return database.ExecutableFunc(func(ctx context.Context, conn *database.Conn) (bool, error) {
		if err := s.Validate(); err != nil {
			return false, err
		}
		return storeSessions([]models.Session{s}).Execute(ctx, conn)
	})
}

// sessionKey identifies a stored session by the columns written for it.
// Sessions sharing a key are told apart by insertion order.
type sessionKey struct {
	player uuid.UUID
	server uuid.UUID
	start  int64
	end    int64
}

func keyOf(s models.Session) sessionKey {
	return sessionKey{player: s.PlayerUUID, server: s.ServerUUID, start: s.Start, end: s.End}
}

func storeSessions(list []models.Session) database.Executable {
	return database.ExecutableFunc(func(ctx context.Context, conn *database.Conn) (bool, error) {
		if len(list) == 0 {
			return false, nil
		}

		// The write lock is held, so every id above the current maximum is ours.
		var before int64
		if err := conn.QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) FROM sessions").Scan(&before); err != nil {
			return false, fmt.Errorf("failed to read session id watermark: %w", err)
		}

		insert := database.BatchInsert{
			Table:   database.TableSessions,
			Columns: []string{"uuid", "server_uuid", "session_start", "session_end", "mob_kills", "deaths", "afk_time"},
			Rows: rowsOf(list, func(s models.Session) []any {
				return []any{s.PlayerUUID, s.ServerUUID, s.Start, s.End, s.MobKills, s.Deaths, s.AFKTime}
			}),
		}
		if _, err := insert.Execute(ctx, conn); err != nil {
			return false, err
		}

		// The first placeholder pages, the second is the watermark.
		ids := map[sessionKey][]int64{}
		err := conn.QueryPaged(ctx, "SELECT id, uuid, server_uuid, session_start, session_end FROM sessions WHERE id > ? AND id > ? ORDER BY id", []any{before},
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var k sessionKey
				if err := rows.Scan(&id, &k.player, &k.server, &k.start, &k.end); err != nil {
					return 0, err
				}
				ids[k] = append(ids[k], id)
				return id, nil
			})
		if err != nil {
			return false, fmt.Errorf("failed to look up session ids: %w", err)
		}

		var keys []worldKey
		for _, s := range list {
			for world := range s.WorldTimes {
				keys = append(keys, worldKey{server: s.ServerUUID, name: world})
			}
		}
		worldIDs, _, err := ensureWorlds(ctx, conn, lo.Uniq(keys))
		if err != nil {
			return false, fmt.Errorf("failed to store worlds: %w", err)
		}

		var worldRows, killRows [][]any
		for _, s := range list {
			k := keyOf(s)
			if len(ids[k]) == 0 {
				return false, fmt.Errorf("session of %s at %d was not stored", s.PlayerUUID, s.Start)
			}
			sessionID := ids[k][0]
			ids[k] = ids[k][1:]
			for world, gm := range s.WorldTimes {
				worldRows = append(worldRows, []any{
					sessionID, worldIDs[worldKey{server: s.ServerUUID, name: world}], s.PlayerUUID, s.ServerUUID,
					gm[models.Survival], gm[models.Creative], gm[models.Adventure], gm[models.Spectator],
				})
			}
			for _, k := range s.Kills {
				killRows = append(killRows, []any{k.KillerUUID, k.VictimUUID, s.ServerUUID, k.Weapon, k.Date, sessionID})
			}
		}

		worldTimes := database.BatchInsert{
			Table:   database.TableWorldTimes,
			Columns: []string{"session_id", "world_id", "uuid", "server_uuid", "survival_time", "creative_time", "adventure_time", "spectator_time"},
			Rows:    slices.Values(worldRows),
		}
		if _, err := worldTimes.Execute(ctx, conn); err != nil {
			return false, err
		}

		kills := database.BatchInsert{
			Table:   database.TableKills,
			Columns: []string{"killer_uuid", "victim_uuid", "server_uuid", "weapon", "date", "session_id"},
			Rows:    slices.Values(killRows),
		}
		if _, err := kills.Execute(ctx, conn); err != nil {
			return false, err
		}
		return true, nil
	})
}

// SessionCount returns the number of stored sessions.
func SessionCount() database.Query[int] {
	return database.Named("session_count", func(ctx context.Context, conn *database.Conn) (int, error) {
		var n int
		err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n)
		return n, err
	})
}

// playedBetween matches sessions overlapping [after, before]; active sessions
// (session_end = 0) are still running.
const playedBetween = "s.session_start <= ? AND (s.session_end >= ? OR s.session_end = 0)"

// UniquePlayerCountBetween counts players with a session overlapping [after, before].
func UniquePlayerCountBetween(after, before int64) database.Query[int] {
	return database.Named("unique_player_count", func(ctx context.Context, conn *database.Conn) (int, error) {
		var n int
		err := conn.QueryRow(ctx, "SELECT COUNT(DISTINCT s.uuid) FROM sessions s WHERE "+playedBetween, before, after).Scan(&n)
		return n, err
	})
}

// WorldTimesOfServer sums the world times of every session on server.
func WorldTimesOfServer(server uuid.UUID) database.Query[models.WorldTimes] {
	return database.Named("world_times_of_server", func(ctx context.Context, conn *database.Conn) (models.WorldTimes, error) {
		return worldTimes(ctx, conn, "wt.server_uuid = ?", server)
	})
}

// WorldTimesOfPlayer sums the world times of every session of player.
func WorldTimesOfPlayer(player uuid.UUID) database.Query[models.WorldTimes] {
	return database.Named("world_times_of_player", func(ctx context.Context, conn *database.Conn) (models.WorldTimes, error) {
		return worldTimes(ctx, conn, "wt.uuid = ?", player)
	})
}

func worldTimes(ctx context.Context, conn *database.Conn, where string, arg any) (models.WorldTimes, error) {
	times := models.WorldTimes{}
	err := collect(ctx, conn, func(rows *sql.Rows) error {
		var world string
		var gm [4]int64
		if err := rows.Scan(&world, &gm[0], &gm[1], &gm[2], &gm[3]); err != nil {
			return err
		}
		for i, mode := range models.GameModes {
			times.Add(world, mode, gm[i])
		}
		return nil
	}, `SELECT w.world_name, wt.survival_time, wt.creative_time, wt.adventure_time, wt.spectator_time
		FROM world_times wt JOIN worlds w ON w.id = wt.world_id
		WHERE `+where, arg)
	return times, err
}

// SessionsByUserIDBetween returns the sessions overlapping [after, before]
// grouped by local user id, without kills or world times.
func SessionsByUserIDBetween(after, before int64) database.Query[map[int][]models.Session] {
	return database.Named("sessions_by_user_id", func(ctx context.Context, conn *database.Conn) (map[int][]models.Session, error) {
		sessions := map[int][]models.Session{}
		err := conn.QueryPaged(ctx,
			`SELECT s.id, u.id, s.uuid, s.server_uuid, s.session_start, s.session_end, s.afk_time
			FROM sessions s JOIN users u ON u.uuid = s.uuid
			WHERE s.id > ? AND `+playedBetween+` ORDER BY s.id`, []any{before, after},
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var userID int
				var s models.Session
				if err := rows.Scan(&id, &userID, &s.PlayerUUID, &s.ServerUUID, &s.Start, &s.End, &s.AFKTime); err != nil {
					return 0, err
				}
				sessions[userID] = append(sessions[userID], s)
				return id, nil
			})
		return sessions, err
	})
}

// DateBounds is the time range covered by stored sessions.
type DateBounds struct {
	First int64
	Last  int64
}

// SessionDateBounds returns the earliest start and latest end of all sessions,
// or zero bounds when there are none.
func SessionDateBounds() database.Query[DateBounds] {
	return func(ctx context.Context, conn *database.Conn) (DateBounds, error) {
		var first, last sql.NullInt64
		err := conn.QueryRow(ctx, "SELECT MIN(session_start), MAX(session_end) FROM sessions").Scan(&first, &last)
		if err != nil {
			return DateBounds{}, err
		}
		return DateBounds{First: first.Int64, Last: last.Int64}, nil
	}
}
