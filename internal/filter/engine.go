// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/activity"
	"github.com/tomtom215/playerstats/internal/cache"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/metrics"
	"github.com/tomtom215/playerstats/internal/validation"
)

// Engine holds the registered filters of one database and combines their
// results.
type Engine struct {
	db      database.Database
	filters map[string]Filter

	location *time.Location
	calc     activity.Calculator
	cache    cache.Cacher
	now      func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLocation sets the time zone used to read filter dates.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) { e.location = loc }
}

// WithCalculator sets the activity index thresholds.
func WithCalculator(calc activity.Calculator) EngineOption {
	return func(e *Engine) { e.calc = calc }
}

// WithCache caches activity groups.
func WithCache(c cache.Cacher) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine with every built-in filter registered.
func NewEngine(db database.Database, opts ...EngineOption) *Engine {
	e := &Engine{
		db:       db,
		filters:  map[string]Filter{},
		location: time.UTC,
		calc:     activity.NewCalculator(30*time.Minute, 2),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Register(NewAllPlayersFilter(db))
	e.Register(NewBannedFilter(db))
	e.Register(NewOperatorsFilter(db))
	e.Register(NewPlayedBetweenFilter(db, e.location))
	e.Register(NewPlayedOnDateFilter(db, e.location))
	e.Register(NewRegisteredBetweenFilter(db, e.location))
	e.Register(NewPlayedOnServerFilter(db))
	e.Register(NewGeolocationsFilter(db))
	e.Register(NewActivityIndexNowFilter(db, e.calc, e.cache, e.now))
	e.Register(NewActivityIndexDateFilter(db, e.calc, e.cache, e.location))
	e.Register(NewPluginBooleanGroupsFilter(db))
	return e
}

// Register adds or replaces a filter by kind.
func (e *Engine) Register(f Filter) {
	e.filters[f.Kind()] = f
}

// Kinds lists the registered filter kinds in sorted order.
func (e *Engine) Kinds() []string {
	kinds := lo.Keys(e.filters)
	sort.Strings(kinds)
	return kinds
}

// Filter returns the filter of a kind.
func (e *Engine) Filter(kind string) (Filter, error) {
	f, ok := e.filters[kind]
	if !ok {
		return nil, validation.NewParameterError("kind", kind,
			fmt.Sprintf("unknown filter kind %q", kind))
	}
	return f, nil
}

// Options returns the UI choices of a filter kind.
func (e *Engine) Options(ctx context.Context, kind string) (Options, error) {
	f, err := e.Filter(kind)
	if err != nil {
		return Options{}, err
	}
	return f.Options(ctx)
}

// Apply resolves every query and intersects the results. Queries that select
// everyone add no constraint; when nothing constrains the selection every
// registered player is returned.
func (e *Engine) Apply(ctx context.Context, filterQueries []Query) (UserIDs, error) {
	ctx = logging.EnsureCorrelationID(ctx)
	log := logging.Ctx(ctx)

	var selection UserIDs
	constrained := false
	for _, q := range filterQueries {
		f, err := e.Filter(q.Kind)
		if err != nil {
			metrics.RecordFilter("unknown", "error")
			return nil, err
		}

		result, err := f.MatchingUserIDs(ctx, q.Parameters)
		if err != nil {
			metrics.RecordFilter(q.Kind, "error")
			return nil, fmt.Errorf("filter %s: %w", q.Kind, err)
		}

		ids, ok := result.UserIDs()
		if !ok {
			metrics.RecordFilter(q.Kind, "everyone")
			log.Debug().Str("filter", q.Kind).Msg("Filter selects everyone, skipping")
			continue
		}
		metrics.RecordFilter(q.Kind, "ids")

		if !constrained {
			selection, constrained = ids, true
		} else {
			selection = intersect(selection, ids)
		}
	}

	if !constrained {
		result, err := e.filters[KindAllPlayers].MatchingUserIDs(ctx, nil)
		if err != nil {
			return nil, err
		}
		selection, _ = result.UserIDs()
	}
	return selection, nil
}

// ApplyJSON decodes a JSON array of queries and applies them.
//
//	[{"kind":"banned","parameters":{"selected":"Banned"}}]
func (e *Engine) ApplyJSON(ctx context.Context, data []byte) (UserIDs, error) {
	filterQueries, err := DecodeQueries(data)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, filterQueries)
}

// DecodeQueries decodes a JSON array of queries.
func DecodeQueries(data []byte) ([]Query, error) {
	var filterQueries []Query
	if err := json.Unmarshal(data, &filterQueries); err != nil {
		return nil, validation.NewParameterError("filters", string(data), "filters must be a JSON array of {kind, parameters}")
	}
	return filterQueries, nil
}

// UnmarshalJSON accepts string parameters as is and keeps any other JSON
// value (such as a pluginsBooleanGroups selection array) as its raw text.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	params := make(Params, len(raw))
	for name, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			params[name] = s
			continue
		}
		params[name] = string(value)
	}
	*p = params
	return nil
}

// ExpectedParameters returns the parameter names of every kind.
func (e *Engine) ExpectedParameters() map[string][]string {
	out := make(map[string][]string, len(e.filters))
	for kind, f := range e.filters {
		out[kind] = slices.Clone(f.ExpectedParameters())
	}
	return out
}
