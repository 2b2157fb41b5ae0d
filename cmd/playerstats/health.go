// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/playerstats/internal/backup"
	"github.com/tomtom215/playerstats/internal/cache"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/filter"
	"github.com/tomtom215/playerstats/internal/logging"
)

// backupStatus is the last scheduled backup.
type backupStatus struct {
	Rows          int    `json:"rows"`
	Skipped       bool   `json:"skipped"`
	Finished      string `json:"finished,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

type healthResponse struct {
	Status       string        `json:"status"`
	Database     string        `json:"database"`
	Backend      string        `json:"backend"`
	State        string        `json:"state"`
	Uptime       float64       `json:"uptime"`
	Filters      []string      `json:"filters"`
	CacheHitRate *float64      `json:"cache_hit_rate,omitempty"`
	LastBackup   *backupStatus `json:"last_backup,omitempty"`
}

type health struct {
	db        database.Database
	engine    *filter.Engine
	cache     cache.Cacher
	scheduler *backup.Scheduler
	started   time.Time
}

func newHealth(db database.Database, engine *filter.Engine, c cache.Cacher, scheduler *backup.Scheduler) *health {
	return &health{db: db, engine: engine, cache: c, scheduler: scheduler, started: time.Now()}
}

// ServeHTTP reports 200 while the database is OPEN and 503 otherwise.
func (h *health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	state := h.db.State()
	resp := healthResponse{
		Status:   "ok",
		Database: h.db.Name(),
		Backend:  h.db.Backend(),
		State:    state.String(),
		Uptime:   time.Since(h.started).Seconds(),
		Filters:  h.engine.Kinds(),
	}
	if h.cache != nil {
		rate := h.cache.HitRate()
		resp.CacheHitRate = &rate
	}
	if h.scheduler != nil {
		if result, err := h.scheduler.Last(); err != nil {
			resp.LastBackup = &backupStatus{Error: err.Error()}
		} else if result != nil {
			resp.LastBackup = &backupStatus{
				Rows:          result.Rows(),
				Skipped:       result.Skipped,
				Finished:      result.StartedAt.Add(result.Duration).UTC().Format(time.RFC3339),
				CorrelationID: result.CorrelationID,
			}
		}
	}

	code := http.StatusOK
	if state != database.StateOpen {
		code = http.StatusServiceUnavailable
		resp.Status = "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write health response")
	}
}

func newRouter(h http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Method(http.MethodGet, "/healthz", h)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
