// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/activity"
	"github.com/tomtom215/playerstats/internal/cache"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/queries"
)

// groupLabels are the options of the activity filters, most active first.
func groupLabels() []string {
	return lo.Map(activity.Groups(), func(g activity.Group, _ int) string { return g.String() })
}

// ActivityIndexFilter buckets every player by activity index at a reference
// date and matches the selected buckets. Players without sessions in the
// scoring windows are Inactive.
type ActivityIndexFilter struct {
	MultiOptionFilter

	kind string
	// reference returns the scoring instant, or an error for bad parameters.
	reference func(params Params) (time.Time, error)

	db    database.Database
	calc  activity.Calculator
	cache cache.Cacher
}

// NewActivityIndexNowFilter creates the activityIndexNow filter, which scores
// players as of now (truncated to the minute).
func NewActivityIndexNowFilter(db database.Database, calc activity.Calculator, c cache.Cacher, now func() time.Time) *ActivityIndexFilter {
	if now == nil {
		now = time.Now
	}
	return &ActivityIndexFilter{
		kind: KindActivityIndexNow,
		reference: func(Params) (time.Time, error) {
			return now().Truncate(time.Minute), nil
		},
		db:    db,
		calc:  calc,
		cache: c,
	}
}

// ActivityIndexDateFilter is the activityIndexDate filter, scoring players at
// an explicit date and time.
type ActivityIndexDateFilter struct {
	*ActivityIndexFilter
	dates DateRangeFilter
}

// NewActivityIndexDateFilter creates the activityIndexDate filter.
func NewActivityIndexDateFilter(db database.Database, calc activity.Calculator, c cache.Cacher, loc *time.Location) *ActivityIndexDateFilter {
	f := &ActivityIndexDateFilter{dates: newDateRangeFilter(db, loc)}
	f.ActivityIndexFilter = &ActivityIndexFilter{
		kind: KindActivityIndexDate,
		reference: func(params Params) (time.Time, error) {
			return f.dates.Instant(params, ParamDate, ParamTime)
		},
		db:    db,
		calc:  calc,
		cache: c,
	}
	return f
}

func (f *ActivityIndexDateFilter) ExpectedParameters() []string {
	return []string{ParamDate, ParamTime, ParamSelected}
}

func (f *ActivityIndexFilter) Kind() string { return f.kind }

func (f *ActivityIndexFilter) Options(context.Context) (Options, error) {
	return Options{Options: groupLabels()}, nil
}

func (f *ActivityIndexFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	reference, err := f.reference(params)
	if err != nil {
		return Result{}, err
	}
	selected, all, err := f.Selected(params, groupLabels())
	if err != nil {
		return Result{}, err
	}
	if all {
		return Everyone(), nil
	}

	wanted := map[activity.Group]bool{}
	for _, label := range selected {
		g, _ := activity.ParseGroup(label)
		wanted[g] = true
	}

	groups, err := f.Groups(ctx, reference.UnixMilli())
	if err != nil {
		return Result{}, err
	}

	ids := UserIDs{}
	for id, g := range groups {
		if wanted[g] {
			ids.Add(id)
		}
	}
	if wanted[activity.Inactive] {
		everyone, err := database.RunQuery(ctx, f.db, queries.AllUserIDs())
		if err != nil {
			return Result{}, err
		}
		for id := range everyone {
			if _, scored := groups[id]; !scored {
				ids.Add(id)
			}
		}
	}
	return IDs(ids), nil
}

type groupsKey struct {
	Database   string `json:"database"`
	Generation uint64 `json:"generation"`
	Reference  int64  `json:"reference"`
	Thresholds string `json:"thresholds"`
}

// Groups returns the activity group of every player with a session in the
// scoring windows before reference. Results are cached per database, data
// generation, minute and thresholds; the groups are keyed by local user ids,
// which any commit (a restore included) may reassign.
func (f *ActivityIndexFilter) Groups(ctx context.Context, reference int64) (map[int]activity.Group, error) {
	minute := time.UnixMilli(reference).Truncate(time.Minute).UnixMilli()
	key := cache.GenerateKey("activity", groupsKey{
		Database:   f.db.Name(),
		Generation: f.db.Generation(),
		Reference:  minute,
		Thresholds: f.calc.Key(),
	})

	if f.cache != nil {
		if groups, ok := cache.GetJSON[map[int]activity.Group](f.cache, key); ok {
			return groups, nil
		}
	}

	sessions, err := database.RunQuery(ctx, f.db, queries.SessionsByUserIDBetween(f.calc.Lookback(reference), reference))
	if err != nil {
		return nil, err
	}
	groups := make(map[int]activity.Group, len(sessions))
	for id, history := range sessions {
		groups[id] = f.calc.Group(history, reference)
	}

	if f.cache != nil {
		if err := cache.SetJSON(f.cache, key, groups); err != nil {
			logging.Warn().Err(err).Str("filter", f.kind).Msg("Failed to cache activity groups")
		}
	}
	return groups, nil
}
