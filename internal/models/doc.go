// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package models defines the entities persisted by Playerstats.

Every entity is identified across databases by UUIDs only. Integer ids (user id,
session id, world id, server id) are local to one backend: they live in the id
columns and no entity type has a field for them. The copy path only moves
values that implement Portable.

Key Components:

  - Server: a game server (or proxy) reporting into the database
  - BaseUser / UserInfo: global player record and per-server registration
  - Session: one play session with its PlayerKills and WorldTimes
  - GeoInfo, Nickname, Ping, TPS: time-stamped samples
  - World: a named world of a server
  - CommandUse: per-server command counters (map form), Command per counter
  - WebUser: a web login with a bcrypt password hash
  - ProviderBoolean: a boolean value reported by a plugin data provider

Timestamps are epoch milliseconds (int64). Durations are milliseconds.

Usage Example:

	s := models.Session{
	    PlayerUUID: player,
	    ServerUUID: server,
	    Start:      start,
	    End:        start + 10_000,
	    WorldTimes: models.WorldTimes{"world": {models.Survival: 10_000}},
	}
	if err := s.Validate(); err != nil {
	    return err
	}
*/
package models
