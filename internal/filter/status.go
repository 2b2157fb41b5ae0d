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

// Option labels of the ban and operator filters.
const (
	OptionBanned       = "Banned"
	OptionNotBanned    = "Not banned"
	OptionOperators    = "Operators"
	OptionNonOperators = "Non operators"
)

// StatusFilter selects players by a per-server boolean flag. A player matches
// an option when any of their registrations carries that value.
type StatusFilter struct {
	MultiOptionFilter

	kind  string
	yes   string
	no    string
	query func(value bool) database.Query[UserIDs]
	db    database.Database
}

// NewBannedFilter creates the banned filter.
func NewBannedFilter(db database.Database) *StatusFilter {
	return &StatusFilter{kind: KindBanned, yes: OptionBanned, no: OptionNotBanned, query: queries.BannedUserIDs, db: db}
}

// NewOperatorsFilter creates the operators filter.
func NewOperatorsFilter(db database.Database) *StatusFilter {
	return &StatusFilter{kind: KindOperators, yes: OptionOperators, no: OptionNonOperators, query: queries.OperatorUserIDs, db: db}
}

func (f *StatusFilter) Kind() string { return f.kind }

func (f *StatusFilter) labels() []string {
	return []string{f.yes, f.no}
}

func (f *StatusFilter) Options(context.Context) (Options, error) {
	return Options{Options: f.labels()}, nil
}

func (f *StatusFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	selected, all, err := f.Selected(params, f.labels())
	if err != nil {
		return Result{}, err
	}
	if all {
		return Everyone(), nil
	}

	sets := make([]UserIDs, 0, len(selected))
	for _, label := range selected {
		ids, err := database.RunQuery(ctx, f.db, f.query(label == f.yes))
		if err != nil {
			return Result{}, err
		}
		sets = append(sets, ids)
	}
	return IDs(union(sets...)), nil
}
