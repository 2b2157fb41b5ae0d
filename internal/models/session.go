// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidSession is returned by Session.Validate.
var ErrInvalidSession = errors.New("invalid session")

// Session is a single play session of a player on a server.
// End is zero while the session is active.
type Session struct {
	PlayerUUID uuid.UUID    `json:"player_uuid"`
	ServerUUID uuid.UUID    `json:"server_uuid"`
	Start      int64        `json:"start"`
	End        int64        `json:"end"`
	AFKTime    int64        `json:"afk_time"`
	Deaths     int          `json:"deaths"`
	MobKills   int          `json:"mob_kills"`
	Kills      []PlayerKill `json:"player_kills,omitempty"`
	WorldTimes WorldTimes   `json:"world_times,omitempty"`
}

// PlayerKill is one player killing another during a session.
type PlayerKill struct {
	KillerUUID uuid.UUID `json:"killer_uuid"`
	VictimUUID uuid.UUID `json:"victim_uuid"`
	ServerUUID uuid.UUID `json:"server_uuid"`
	VictimName string    `json:"victim_name,omitempty"`
	Weapon     string    `json:"weapon"`
	Date       int64     `json:"date"`
}

func (Session) portable() {}

// IsActive reports whether the session has not ended.
func (s Session) IsActive() bool {
	return s.End == 0
}

// EndOr returns the session end, or now if the session is active.
func (s Session) EndOr(now int64) int64 {
	if s.IsActive() {
		return now
	}
	return s.End
}

// Length returns the session length in milliseconds; active sessions are measured up to now.
func (s Session) Length(now int64) int64 {
	length := s.EndOr(now) - s.Start
	if length < 0 {
		return 0
	}
	return length
}

// ActivePlaytime is Length minus AFK time, never negative.
func (s Session) ActivePlaytime(now int64) int64 {
	active := s.Length(now) - s.AFKTime
	if active < 0 {
		return 0
	}
	return active
}

// Validate checks the invariants of a finished session: start before end and
// world times summing to end - start - afk.
func (s Session) Validate() error {
	if s.PlayerUUID == uuid.Nil || s.ServerUUID == uuid.Nil {
		return fmt.Errorf("%w: missing player or server uuid", ErrInvalidSession)
	}
	if s.IsActive() {
		return nil
	}
	if s.End < s.Start {
		return fmt.Errorf("%w: end %d before start %d", ErrInvalidSession, s.End, s.Start)
	}
	if len(s.WorldTimes) == 0 {
		return nil
	}
	if want, got := s.End-s.Start-s.AFKTime, s.WorldTimes.Total(); got != want {
		return fmt.Errorf("%w: world times total %d, expected %d", ErrInvalidSession, got, want)
	}
	return nil
}
