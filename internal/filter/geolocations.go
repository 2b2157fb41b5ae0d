// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/queries"
)

// GeolocationsFilter matches players whose most recent geolocation is one of
// the selected countries. Geocodes and country names are interchangeable.
type GeolocationsFilter struct {
	MultiOptionFilter
	db database.Database
}

// NewGeolocationsFilter creates the geolocations filter.
func NewGeolocationsFilter(db database.Database) *GeolocationsFilter {
	return &GeolocationsFilter{db: db}
}

func (f *GeolocationsFilter) Kind() string { return KindGeolocations }

func (f *GeolocationsFilter) Options(ctx context.Context) (Options, error) {
	geos, err := database.RunQuery(ctx, f.db, queries.DistinctGeolocations())
	if err != nil {
		return Options{}, err
	}
	return Options{Options: geos}, nil
}

func (f *GeolocationsFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	known, err := database.RunQuery(ctx, f.db, queries.DistinctGeolocations())
	if err != nil {
		return Result{}, err
	}

	// Codes are resolved before validation so "FI" and "Finland" select the same option.
	resolved := lo.Map(SplitSelected(params[ParamSelected]), func(label string, _ int) string {
		if lo.Contains(known, label) {
			return label
		}
		return CountryName(label)
	})
	selected, all, err := f.Selected(Params{ParamSelected: strings.Join(resolved, ",")}, known)
	if err != nil {
		return Result{}, err
	}
	if all {
		return Everyone(), nil
	}

	ids, err := database.RunQuery(ctx, f.db, queries.UserIDsOfLatestGeolocations(selected))
	if err != nil {
		return Result{}, err
	}
	return IDs(ids), nil
}
