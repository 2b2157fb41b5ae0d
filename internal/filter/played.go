// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"
	"time"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/queries"
)

// PlayedBetweenFilter matches players with a session overlapping [after, before].
type PlayedBetweenFilter struct {
	DateRangeFilter
}

// NewPlayedBetweenFilter creates the playedBetween filter.
func NewPlayedBetweenFilter(db database.Database, loc *time.Location) *PlayedBetweenFilter {
	return &PlayedBetweenFilter{DateRangeFilter: newDateRangeFilter(db, loc)}
}

func (f *PlayedBetweenFilter) Kind() string { return KindPlayedBetween }

func (f *PlayedBetweenFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	after, before, err := f.Range(params)
	if err != nil {
		return Result{}, err
	}
	return f.between(ctx, after, before)
}

func (f *PlayedBetweenFilter) between(ctx context.Context, after, before int64) (Result, error) {
	if after > before {
		return IDs(nil), nil
	}
	ids, err := database.RunQuery(ctx, f.db, queries.UserIDsPlayedBetween(after, before))
	if err != nil {
		return Result{}, err
	}
	return IDs(ids), nil
}

// PlayedOnDateFilter matches players with a session on a calendar day.
type PlayedOnDateFilter struct {
	PlayedBetweenFilter
}

// NewPlayedOnDateFilter creates the playedOnDate filter.
func NewPlayedOnDateFilter(db database.Database, loc *time.Location) *PlayedOnDateFilter {
	return &PlayedOnDateFilter{PlayedBetweenFilter: *NewPlayedBetweenFilter(db, loc)}
}

func (f *PlayedOnDateFilter) Kind() string                 { return KindPlayedOnDate }
func (f *PlayedOnDateFilter) ExpectedParameters() []string { return []string{ParamDate} }

func (f *PlayedOnDateFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	day, err := f.Day(params, ParamDate)
	if err != nil {
		return Result{}, err
	}
	next := day.AddDate(0, 0, 1)
	return f.between(ctx, day.UnixMilli(), next.UnixMilli()-1)
}

// RegisteredBetweenFilter matches players who registered within the range.
type RegisteredBetweenFilter struct {
	DateRangeFilter
}

// NewRegisteredBetweenFilter creates the registeredBetween filter.
func NewRegisteredBetweenFilter(db database.Database, loc *time.Location) *RegisteredBetweenFilter {
	return &RegisteredBetweenFilter{DateRangeFilter: newDateRangeFilter(db, loc)}
}

func (f *RegisteredBetweenFilter) Kind() string { return KindRegisteredBetween }

func (f *RegisteredBetweenFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	after, before, err := f.Range(params)
	if err != nil {
		return Result{}, err
	}
	if after > before {
		return IDs(nil), nil
	}
	ids, err := database.RunQuery(ctx, f.db, queries.UserIDsRegisteredBetween(after, before))
	if err != nil {
		return Result{}, err
	}
	return IDs(ids), nil
}
