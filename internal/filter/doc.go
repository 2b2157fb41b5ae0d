// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package filter resolves composable player selections to sets of user ids.

Each Filter turns string parameters into a Result, which is either Everyone()
(the parameters do not constrain anything, so nothing was queried) or an
explicit id set. Ids are local to the database the filter runs against.

# Filters

  - allPlayers: every registered player
  - banned, operators: "Banned"/"Not banned", "Operators"/"Non operators"
  - playedBetween: a session overlapping [after, before]
  - playedOnDate: a session on a calendar day
  - registeredBetween: registration date within a range
  - playedOnServer: registered on a selected server
  - geolocations: latest geolocation is a selected country (names or geocodes)
  - activityIndexNow, activityIndexDate: activity group at now or a given date
  - pluginsBooleanGroups: plugin provided boolean values

Multiple choice filters share MultiOptionFilter; date filters share
DateRangeFilter, which reads dd/MM/yyyy dates and HH:mm times in the engine's
time zone. Malformed parameters fail with a *validation.RequestValidationError
naming the parameter.

# Engine

	engine := filter.NewEngine(db,
	    filter.WithLocation(loc),
	    filter.WithCalculator(activity.NewCalculator(30*time.Minute, 2)),
	    filter.WithCache(c),
	)
	ids, err := engine.ApplyJSON(ctx, []byte(`[
	    {"kind": "banned", "parameters": {"selected": "Not banned"}},
	    {"kind": "activityIndexNow", "parameters": {"selected": "Very Active,Active"}}
	]`))

Apply intersects the results of all queries. Everyone results add no
constraint, and a selection with no constraint at all falls back to
allPlayers.
*/
package filter
