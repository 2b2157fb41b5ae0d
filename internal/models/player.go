// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package models

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// BaseUser is the server-independent record of a player.
type BaseUser struct {
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	Registered  int64     `json:"registered"`
	TimesKicked int       `json:"times_kicked"`
}

func (BaseUser) portable() {}

// UserInfo is a player's registration on one server.
type UserInfo struct {
	PlayerUUID  uuid.UUID `json:"player_uuid"`
	ServerUUID  uuid.UUID `json:"server_uuid"`
	Registered  int64     `json:"registered"`
	Banned      bool      `json:"banned"`
	Operator    bool      `json:"operator"`
	JoinAddress string    `json:"join_address,omitempty"`
}

func (UserInfo) portable() {}

// Nickname is a display name a player used on a server.
type Nickname struct {
	PlayerUUID uuid.UUID `json:"player_uuid"`
	ServerUUID uuid.UUID `json:"server_uuid"`
	Name       string    `json:"name"`
	LastUsed   int64     `json:"last_used"`
}

func (Nickname) portable() {}

// GeoInfo records where a player connected from.
// The entry with the greatest LastUsed is the player's current location.
type GeoInfo struct {
	PlayerUUID  uuid.UUID `json:"player_uuid"`
	IP          string    `json:"ip"`
	IPHash      string    `json:"ip_hash"`
	Geolocation string    `json:"geolocation"`
	LastUsed    int64     `json:"last_used"`
}

// NewGeoInfo builds a GeoInfo with the IP hash derived from ip.
func NewGeoInfo(player uuid.UUID, ip, geolocation string, lastUsed int64) GeoInfo {
	return GeoInfo{
		PlayerUUID:  player,
		IP:          ip,
		IPHash:      HashIP(ip),
		Geolocation: geolocation,
		LastUsed:    lastUsed,
	}
}

// HashIP returns the hex SHA-256 digest of an IP address.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

func (GeoInfo) portable() {}

// Latest returns the most recently used entry, or false if infos is empty.
func Latest(infos []GeoInfo) (GeoInfo, bool) {
	if len(infos) == 0 {
		return GeoInfo{}, false
	}
	latest := infos[0]
	for _, info := range infos[1:] {
		if info.LastUsed > latest.LastUsed {
			latest = info
		}
	}
	return latest, true
}

// Ping is a latency sample for a player on a server.
type Ping struct {
	PlayerUUID uuid.UUID `json:"player_uuid"`
	ServerUUID uuid.UUID `json:"server_uuid"`
	Date       int64     `json:"date"`
	Min        int       `json:"min_ping"`
	Max        int       `json:"max_ping"`
	Avg        float64   `json:"avg_ping"`
}

func (Ping) portable() {}
