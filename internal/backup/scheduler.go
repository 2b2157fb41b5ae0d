// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package backup

import (
	"context"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/playerstats/internal/config"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
)

// Scheduler backs up a live database at a fixed interval. It implements
// suture.Service and runs in the data layer of the supervisor tree.
type Scheduler struct {
	live database.Database
	cfg  config.BackupConfig

	mu   sync.Mutex
	last *Result
	err  error
}

// NewScheduler creates a scheduler for cfg.Interval.
func NewScheduler(live database.Database, cfg config.BackupConfig) *Scheduler {
	return &Scheduler{live: live, cfg: cfg}
}

// String implements fmt.Stringer for supervisor logs.
func (s *Scheduler) String() string {
	return "backup-scheduler"
}

// Serve runs one backup per interval until ctx is canceled. A scheduler
// without an interval stops without being restarted.
func (s *Scheduler) Serve(ctx context.Context) error {
	if s.cfg.Interval <= 0 {
		logging.Debug().Msg("Backup schedule disabled")
		return suture.ErrDoNotRestart
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one backup and records its outcome. Failures are logged,
// not returned: the next tick tries again.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx = logging.EnsureCorrelationID(ctx)
	result, err := Backup(ctx, s.live, s.cfg)

	s.mu.Lock()
	s.last, s.err = result, err
	s.mu.Unlock()

	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("path", s.cfg.Path).Msg("Scheduled backup failed")
		return
	}
	logging.Ctx(ctx).Info().
		Str("path", s.cfg.Path).
		Bool("skipped", result.Skipped).
		Int("rows", result.Rows()).
		Msg("Scheduled backup completed")
}

// Last returns the outcome of the most recent scheduled backup.
func (s *Scheduler) Last() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.err
}
