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

// PlayedOnServerFilter matches players registered on any selected server.
type PlayedOnServerFilter struct {
	MultiOptionFilter
	db database.Database
}

// NewPlayedOnServerFilter creates the playedOnServer filter.
func NewPlayedOnServerFilter(db database.Database) *PlayedOnServerFilter {
	return &PlayedOnServerFilter{db: db}
}

func (f *PlayedOnServerFilter) Kind() string { return KindPlayedOnServer }

func (f *PlayedOnServerFilter) Options(ctx context.Context) (Options, error) {
	names, err := database.RunQuery(ctx, f.db, queries.ServerNames())
	if err != nil {
		return Options{}, err
	}
	return Options{Options: names}, nil
}

func (f *PlayedOnServerFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	names, err := database.RunQuery(ctx, f.db, queries.ServerNames())
	if err != nil {
		return Result{}, err
	}
	selected, all, err := f.Selected(params, names)
	if err != nil {
		return Result{}, err
	}
	if all {
		return Everyone(), nil
	}
	ids, err := database.RunQuery(ctx, f.db, queries.UserIDsRegisteredOnServers(selected))
	if err != nil {
		return Result{}, err
	}
	return IDs(ids), nil
}
