// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package activity computes the activity index, a continuous engagement score
derived from a player's recent session history.

The score looks at three trailing seven day windows ending at a reference
date. Each window contributes a playtime ratio (active playtime divided by
the play threshold, capped at 4.0) and a login score (1.0 when the window has
at least the login threshold of sessions, 0.5 otherwise). Players who were
very active in the latest week are not penalized for an empty earlier week,
and heavy or infrequent players get a multiplier.

Scores are bucketed into five groups:

	Very Active  >= 3.5
	Active       >= 1.75
	Regular      >= 1.0
	Irregular    >= 0.5
	Inactive     <  0.5

Usage Example:

	calc := activity.NewCalculator(cfg.Activity.PlayThreshold, cfg.Activity.LoginThreshold)
	group := calc.Group(sessions, time.Now().UnixMilli())
	fmt.Println(group) // "Regular"

Everything in this package is pure; it never touches a database.
*/
package activity
