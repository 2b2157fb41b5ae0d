// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/queries"
)

// Parameter names shared by several filters.
const (
	ParamSelected   = "selected"
	ParamDateAfter  = "dateAfter"
	ParamTimeAfter  = "timeAfter"
	ParamDateBefore = "dateBefore"
	ParamTimeBefore = "timeBefore"
	ParamDate       = "date"
	ParamTime       = "time"
)

// UserIDs is a set of backend-local user ids.
type UserIDs = queries.UserIDs

// Params holds the raw string parameters of one filter query.
type Params map[string]string

// Query is one filter application: a filter kind and its parameters.
type Query struct {
	Kind       string `json:"kind"`
	Parameters Params `json:"parameters"`
}

// Options describes the choices a filter offers, for binding to a UI.
type Options struct {
	// Options are the labels accepted by multiple choice filters.
	Options []string `json:"options,omitempty"`

	// After and Before bound the data available to date filters.
	After  string `json:"after,omitempty"`
	Before string `json:"before,omitempty"`

	// Providers lists plugin boolean data providers.
	Providers []queries.BooleanProvider `json:"providers,omitempty"`
}

// Filter resolves a set of parameters to the ids of matching players.
type Filter interface {
	// Kind is the stable identifier used in queries.
	Kind() string

	// ExpectedParameters lists parameter names in order.
	ExpectedParameters() []string

	Options(ctx context.Context) (Options, error)

	// MatchingUserIDs returns Everyone() when the parameters do not constrain
	// the selection, without querying.
	MatchingUserIDs(ctx context.Context, params Params) (Result, error)
}

// Result is either everyone or an explicit id set.
type Result struct {
	everyone bool
	ids      UserIDs
}

// Everyone is the result of a filter that selects the whole population.
func Everyone() Result {
	return Result{everyone: true}
}

// IDs wraps an explicit id set. A nil set is empty, not everyone.
func IDs(ids UserIDs) Result {
	if ids == nil {
		ids = UserIDs{}
	}
	return Result{ids: ids}
}

// IsEveryone reports whether the result places no constraint.
func (r Result) IsEveryone() bool {
	return r.everyone
}

// UserIDs returns the explicit set, or false for Everyone.
func (r Result) UserIDs() (UserIDs, bool) {
	if r.everyone {
		return nil, false
	}
	return r.ids, true
}

func (r Result) String() string {
	if r.everyone {
		return "everyone"
	}
	return fmt.Sprintf("%d ids", len(r.ids))
}

// intersect keeps ids present in both sets.
func intersect(a, b UserIDs) UserIDs {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := UserIDs{}
	for id := range a {
		if b.Contains(id) {
			out.Add(id)
		}
	}
	return out
}

// union merges sets into a new set.
func union(sets ...UserIDs) UserIDs {
	out := UserIDs{}
	for _, set := range sets {
		for id := range set {
			out.Add(id)
		}
	}
	return out
}

// Sorted returns the ids in ascending order.
func Sorted(ids UserIDs) []int {
	keys := lo.Keys(ids)
	slices.Sort(keys)
	return keys
}
