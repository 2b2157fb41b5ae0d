// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package activity

import (
	"time"

	"github.com/tomtom215/playerstats/internal/models"
)

const (
	// Week is the length of one scoring window in milliseconds.
	Week = int64(7 * 24 * time.Hour / time.Millisecond)

	maxPlaytimeRatio = 4.0

	loginActive   = 1.0
	loginInactive = 0.5

	// Smoothing for a quiet week after (or before) an active one.
	gapWeekRatio       = 0.5
	newPlayerWeek2     = 0.6
	newPlayerWeek3     = 0.75
	heavyPlayBonus     = 1.25
	fewLoginsPenalty   = 0.75
	fewLoginsThreshold = 2.0
)

// window is the closed interval [start, end] of one scoring week.
type window struct {
	start int64
	end   int64
}

func (w window) contains(s models.Session, reference int64) bool {
	return s.EndOr(reference) >= w.start && s.Start <= w.end
}

type weekStats struct {
	playtime int64
	sessions int
}

// Index returns the activity index of one player as of reference. playThreshold
// is the weekly active playtime in milliseconds that counts as active and
// loginThreshold is the weekly number of sessions that counts as active.
//
// A session counts toward every window it overlaps. Sessions still in progress
// are treated as ending at reference.
func Index(sessions []models.Session, reference, playThreshold int64, loginThreshold int) float64 {
	if len(sessions) == 0 || playThreshold <= 0 {
		return 0.0
	}

	windows := [3]window{
		{start: reference - Week, end: reference},
		{start: reference - 2*Week, end: reference - Week},
		{start: reference - 3*Week, end: reference - 2*Week},
	}

	var stats [3]weekStats
	for _, s := range sessions {
		if s.Start > reference {
			continue
		}
		for i, w := range windows {
			if w.contains(s, reference) {
				stats[i].playtime += s.ActivePlaytime(reference)
				stats[i].sessions++
			}
		}
	}

	var ratios, logins [3]float64
	var totalPlaytime int64
	for i, st := range stats {
		ratios[i] = min(float64(st.playtime)/float64(playThreshold), maxPlaytimeRatio)
		logins[i] = loginInactive
		if st.sessions >= loginThreshold {
			logins[i] = loginActive
		}
		totalPlaytime += st.playtime
	}

	ratios = smooth(ratios)

	playtimeMultiplier := 1.0
	if totalPlaytime > 3*playThreshold {
		playtimeMultiplier = heavyPlayBonus
	}
	loginMultiplier := 1.0
	if logins[0]+logins[1]+logins[2] <= fewLoginsThreshold {
		loginMultiplier = fewLoginsPenalty
	}

	return average(ratios) * average(logins) * loginMultiplier * playtimeMultiplier
}

// smooth fills quiet earlier weeks of a player who was active in the latest week.
func smooth(r [3]float64) [3]float64 {
	if r[0] <= 1 {
		return r
	}
	out := r
	if r[1] == 0 {
		if r[2] > 1 {
			out[1] = gapWeekRatio
		} else {
			out[1] = newPlayerWeek2
		}
	}
	if r[2] == 0 {
		out[2] = newPlayerWeek3
	}
	return out
}

func average(v [3]float64) float64 {
	return (v[0] + v[1] + v[2]) / 3
}
