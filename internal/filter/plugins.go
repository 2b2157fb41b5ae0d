// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/queries"
	"github.com/tomtom215/playerstats/internal/validation"
)

// Values a plugin boolean selection can match.
const (
	BooleanTrue  = "true"
	BooleanFalse = "false"
	BooleanBoth  = "both"
)

// BooleanSelection selects players by one plugin provided boolean.
//
//	[{"server":"Survival","plugin":"Essentials","provider":"Jailed","value":"true"}]
type BooleanSelection struct {
	Server   string `json:"server" validate:"required"`
	Plugin   string `json:"plugin" validate:"required"`
	Provider string `json:"provider" validate:"required"`
	Value    string `json:"value" validate:"required,oneof=true false both"`
}

func (s BooleanSelection) provider() queries.BooleanProvider {
	return queries.BooleanProvider{Server: s.Server, Plugin: s.Plugin, Provider: s.Provider}
}

func (s BooleanSelection) values() []bool {
	switch s.Value {
	case BooleanTrue:
		return []bool{true}
	case BooleanFalse:
		return []bool{false}
	default:
		return []bool{true, false}
	}
}

// PluginBooleanGroupsFilter matches players by plugin provided boolean values.
// Its selected parameter is a JSON array of BooleanSelection; each selection
// is resolved on its own and the results are unioned.
type PluginBooleanGroupsFilter struct {
	db database.Database
}

// NewPluginBooleanGroupsFilter creates the pluginsBooleanGroups filter.
func NewPluginBooleanGroupsFilter(db database.Database) *PluginBooleanGroupsFilter {
	return &PluginBooleanGroupsFilter{db: db}
}

func (f *PluginBooleanGroupsFilter) Kind() string                 { return KindPluginsBooleanGroups }
func (f *PluginBooleanGroupsFilter) ExpectedParameters() []string { return []string{ParamSelected} }

func (f *PluginBooleanGroupsFilter) Options(ctx context.Context) (Options, error) {
	providers, err := database.RunQuery(ctx, f.db, queries.BooleanProviders())
	if err != nil {
		return Options{}, err
	}
	return Options{Providers: providers}, nil
}

// ParseBooleanSelections decodes and validates the selected parameter.
func ParseBooleanSelections(raw string) ([]BooleanSelection, error) {
	var selections []BooleanSelection
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &selections); err != nil {
		return nil, validation.NewParameterError(ParamSelected, raw, "selected must be a JSON array of {server, plugin, provider, value}")
	}
	if len(selections) == 0 {
		return nil, validation.NewParameterError(ParamSelected, raw, "selected must name at least one provider")
	}
	for i := range selections {
		selections[i].Value = strings.ToLower(strings.TrimSpace(selections[i].Value))
		if err := validation.ValidateStruct(selections[i]); err != nil {
			return nil, err
		}
	}
	return selections, nil
}

func (f *PluginBooleanGroupsFilter) MatchingUserIDs(ctx context.Context, params Params) (Result, error) {
	selections, err := ParseBooleanSelections(params[ParamSelected])
	if err != nil {
		return Result{}, err
	}

	var sets []UserIDs
	for _, s := range selections {
		for _, value := range s.values() {
			ids, err := database.RunQuery(ctx, f.db, queries.UserIDsWithProviderBoolean(s.provider(), value))
			if err != nil {
				return Result{}, err
			}
			sets = append(sets, ids)
		}
	}
	return IDs(union(sets...)), nil
}
