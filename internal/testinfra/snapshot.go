// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package testinfra

import (
	"cmp"
	"slices"
	"testing"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
	"github.com/tomtom215/playerstats/internal/queries"
)

// Snapshot fetches every portable entity of db. Slices whose order depends
// on local ids are sorted so snapshots of different databases compare equal
// with reflect.DeepEqual.
func Snapshot(t testing.TB, db database.Database) Dataset {
	t.Helper()
	d := Dataset{
		Servers:          Query(t, db, queries.FetchAllServers()),
		Users:            Query(t, db, queries.FetchAllBaseUsers()),
		UserInfo:         Query(t, db, queries.FetchAllUserInfo()),
		Worlds:           Query(t, db, queries.FetchAllWorldNames()),
		Nicknames:        Query(t, db, queries.FetchAllNicknames()),
		GeoInfo:          Query(t, db, queries.FetchAllGeoInfo()),
		CommandUse:       Query(t, db, queries.FetchAllCommandUsage()),
		TPS:              Query(t, db, queries.FetchAllTPS()),
		Ping:             Query(t, db, queries.FetchAllPing()),
		Sessions:         Query(t, db, queries.FetchAllSessions()),
		WebUsers:         Query(t, db, queries.FetchAllWebUsers()),
		ProviderBooleans: Query(t, db, queries.FetchAllProviderBooleans()),
	}

	slices.SortFunc(d.Users, func(a, b models.BaseUser) int { return cmp.Compare(a.Name, b.Name) })
	for _, infos := range d.UserInfo {
		slices.SortFunc(infos, func(a, b models.UserInfo) int { return cmp.Compare(a.PlayerUUID.String(), b.PlayerUUID.String()) })
	}
	for _, perPlayer := range d.Sessions {
		for _, sessions := range perPlayer {
			slices.SortFunc(sessions, func(a, b models.Session) int { return cmp.Compare(a.Start, b.Start) })
		}
	}
	slices.SortFunc(d.WebUsers, func(a, b models.WebUser) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortFunc(d.ProviderBooleans, func(a, b models.ProviderBoolean) int {
		return cmp.Compare(a.PlayerUUID.String(), b.PlayerUUID.String())
	})
	return d
}
