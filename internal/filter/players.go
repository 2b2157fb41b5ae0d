// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/queries"
)

// Filter kinds.
const (
	KindAllPlayers           = "allPlayers"
	KindBanned               = "banned"
	KindOperators            = "operators"
	KindPlayedBetween        = "playedBetween"
	KindPlayedOnDate         = "playedOnDate"
	KindRegisteredBetween    = "registeredBetween"
	KindPlayedOnServer       = "playedOnServer"
	KindGeolocations         = "geolocations"
	KindActivityIndexNow     = "activityIndexNow"
	KindActivityIndexDate    = "activityIndexDate"
	KindPluginsBooleanGroups = "pluginsBooleanGroups"
)

// AllPlayersFilter matches every registered player. It is the fallback when
// no other filter constrains a selection.
type AllPlayersFilter struct {
	db database.Database
}

// NewAllPlayersFilter creates the allPlayers filter.
func NewAllPlayersFilter(db database.Database) *AllPlayersFilter {
	return &AllPlayersFilter{db: db}
}

func (f *AllPlayersFilter) Kind() string                 { return KindAllPlayers }
func (f *AllPlayersFilter) ExpectedParameters() []string { return nil }

func (f *AllPlayersFilter) Options(context.Context) (Options, error) {
	return Options{}, nil
}

func (f *AllPlayersFilter) MatchingUserIDs(ctx context.Context, _ Params) (Result, error) {
	ids, err := database.RunQuery(ctx, f.db, queries.AllUserIDs())
	if err != nil {
		return Result{}, err
	}
	return IDs(ids), nil
}
