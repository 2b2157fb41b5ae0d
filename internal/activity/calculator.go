// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package activity

import (
	"fmt"
	"time"

	"github.com/tomtom215/playerstats/internal/metrics"
	"github.com/tomtom215/playerstats/internal/models"
)

// Calculator binds the configured thresholds.
type Calculator struct {
	PlayThreshold  time.Duration
	LoginThreshold int
}

// NewCalculator creates a Calculator.
func NewCalculator(playThreshold time.Duration, loginThreshold int) Calculator {
	return Calculator{PlayThreshold: playThreshold, LoginThreshold: loginThreshold}
}

// Index returns the activity index of sessions as of reference (epoch ms).
func (c Calculator) Index(sessions []models.Session, reference int64) float64 {
	metrics.ActivityIndexComputations.Inc()
	return Index(sessions, reference, c.PlayThreshold.Milliseconds(), c.LoginThreshold)
}

// Group returns the bucket of sessions as of reference.
func (c Calculator) Group(sessions []models.Session, reference int64) Group {
	return Bucket(c.Index(sessions, reference))
}

// Lookback is the earliest instant whose sessions can affect a score at reference.
func (c Calculator) Lookback(reference int64) int64 {
	return reference - 3*Week
}

// Key identifies the thresholds, for use in cache keys.
func (c Calculator) Key() string {
	return fmt.Sprintf("%d:%d", c.PlayThreshold.Milliseconds(), c.LoginThreshold)
}
