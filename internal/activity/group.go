// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package activity

import "fmt"

// Group is an activity index bucket.
type Group int

const (
	VeryActive Group = iota
	Active
	Regular
	Irregular
	Inactive
)

// Bucket thresholds, inclusive lower bounds.
const (
	VeryActiveThreshold = 3.5
	ActiveThreshold     = 1.75
	RegularThreshold    = 1.0
	IrregularThreshold  = 0.5
)

var groupLabels = [...]string{
	VeryActive: "Very Active",
	Active:     "Active",
	Regular:    "Regular",
	Irregular:  "Irregular",
	Inactive:   "Inactive",
}

// String returns the label shown to users, e.g. "Very Active".
func (g Group) String() string {
	if g < VeryActive || g > Inactive {
		return fmt.Sprintf("Group(%d)", int(g))
	}
	return groupLabels[g]
}

// Groups lists every group from most to least active.
func Groups() []Group {
	return []Group{VeryActive, Active, Regular, Irregular, Inactive}
}

// ParseGroup resolves a label produced by String.
func ParseGroup(label string) (Group, bool) {
	for _, g := range Groups() {
		if g.String() == label {
			return g, true
		}
	}
	return 0, false
}

// Bucket classifies a score.
func Bucket(score float64) Group {
	switch {
	case score >= VeryActiveThreshold:
		return VeryActive
	case score >= ActiveThreshold:
		return Active
	case score >= RegularThreshold:
		return Regular
	case score >= IrregularThreshold:
		return Irregular
	default:
		return Inactive
	}
}
