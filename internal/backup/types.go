// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package backup

import (
	"time"

	"github.com/samber/lo"
)

// Stage names, in execution order.
const (
	StageClear            = "clear"
	StageServers          = "servers"
	StageUsers            = "users"
	StageUserInfo         = "user_info"
	StageWorlds           = "worlds"
	StageNicknames        = "nicknames"
	StageGeolocations     = "geolocations"
	StageCommandUse       = "command_use"
	StageTPS              = "tps"
	StagePing             = "ping"
	StageSessions         = "sessions"
	StageWebUsers         = "web_users"
	StageProviderBooleans = "provider_booleans"
)

// StageResult reports one committed copy stage.
type StageResult struct {
	Name     string        `json:"name"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// Result reports a copy between two databases.
type Result struct {
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	StartedAt   time.Time     `json:"started_at"`

	// CorrelationID ties the result to the log lines of the copy.
	CorrelationID string `json:"correlation_id"`

	Duration    time.Duration `json:"duration"`

	// Skipped is set when the source had no players and nothing was written.
	Skipped bool          `json:"skipped"`
	Stages  []StageResult `json:"stages,omitempty"`
}

// Rows is the number of entities copied across all stages.
func (r *Result) Rows() int {
	return lo.SumBy(r.Stages, func(s StageResult) int { return s.Rows })
}

// Stage returns the result of the named stage.
func (r *Result) Stage(name string) (StageResult, bool) {
	return lo.Find(r.Stages, func(s StageResult) bool { return s.Name == name })
}

// Options tune a copy.
type Options struct {
	// Background submits the copy as a non-critical transaction.
	Background bool

	// OnStage is called from the transaction goroutine after each stage has
	// been written. The stage is not committed until the whole copy is.
	OnStage func(StageResult)
}
