// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
	"github.com/tomtom215/playerstats/internal/metrics"
	"github.com/tomtom215/playerstats/internal/models"
	"github.com/tomtom215/playerstats/internal/queries"
)

// TransactionName names the destination transaction of every copy.
const TransactionName = "backup-copy"

// ErrSameDatabase is returned when source and destination are the same database.
var ErrSameDatabase = errors.New("source and destination are the same database")

// stageFunc writes one entity kind into the destination and returns the
// number of entities written.
type stageFunc func(ctx context.Context, conn *database.Conn) (int, error)

type stage struct {
	name string
	run  stageFunc
}

// copyOf fetches everything fetch returns from source and stores it through
// the destination connection. Every stage names the Portable entities its
// data is made of, so no stage can carry a backend-local id.
func copyOf[T any, E models.Portable](source database.Database, fetch database.Query[T], store func(T) database.Executable, entities func(T) []E) stageFunc {
	return func(ctx context.Context, conn *database.Conn) (int, error) {
		data, err := database.RunQuery(ctx, source, fetch)
		if err != nil {
			return 0, fmt.Errorf("read from %s: %w", source.Name(), err)
		}
		if _, err := store(data).Execute(ctx, conn); err != nil {
			return 0, err
		}
		return len(entities(data)), nil
	}
}

func list[E models.Portable](s []E) []E { return s }

func values[K comparable, E models.Portable](m map[K]E) []E { return lo.Values(m) }

func grouped[K comparable, E models.Portable](m map[K][]E) []E { return lo.Flatten(lo.Values(m)) }

func worlds(byServer map[uuid.UUID][]string) []models.World {
	var out []models.World
	for server, names := range byServer {
		for _, name := range names {
			out = append(out, models.World{ServerUUID: server, Name: name})
		}
	}
	return out
}

func commands(usage map[uuid.UUID]models.CommandUse) []models.Command {
	var out []models.Command
	for server, use := range usage {
		out = append(out, use.Commands(server)...)
	}
	return out
}

func sessions(s queries.Sessions) []models.Session { return s.Flatten() }

func clearDestination(ctx context.Context, conn *database.Conn) (int, error) {
	_, err := queries.RemoveEverything().Execute(ctx, conn)
	return 0, err
}

// stages lists the copy in dependency order: servers and users before the
// rows that reference them.
func stages(source database.Database) []stage {
	return []stage{
		{StageClear, clearDestination},
		{StageServers, copyOf(source, queries.FetchAllServers(), queries.StoreAllServers, values[uuid.UUID, models.Server])},
		{StageUsers, copyOf(source, queries.FetchAllBaseUsers(), queries.StoreAllBaseUsers, list[models.BaseUser])},
		{StageUserInfo, copyOf(source, queries.FetchAllUserInfo(), queries.StoreAllUserInfo, grouped[uuid.UUID, models.UserInfo])},
		{StageWorlds, copyOf(source, queries.FetchAllWorldNames(), queries.StoreAllWorldNames, worlds)},
		{StageNicknames, copyOf(source, queries.FetchAllNicknames(), queries.StoreAllNicknames, grouped[uuid.UUID, models.Nickname])},
		{StageGeolocations, copyOf(source, queries.FetchAllGeoInfo(), queries.StoreAllGeoInfo, grouped[uuid.UUID, models.GeoInfo])},
		{StageCommandUse, copyOf(source, queries.FetchAllCommandUsage(), queries.StoreAllCommandUsage, commands)},
		{StageTPS, copyOf(source, queries.FetchAllTPS(), queries.StoreAllTPS, grouped[uuid.UUID, models.TPS])},
		{StagePing, copyOf(source, queries.FetchAllPing(), queries.StoreAllPing, grouped[uuid.UUID, models.Ping])},
		{StageSessions, copyOf(source, queries.FetchAllSessions(), queries.StoreAllSessions, sessions)},
		{StageWebUsers, copyOf(source, queries.FetchAllWebUsers(), queries.StoreAllWebUsers, list[models.WebUser])},
		{StageProviderBooleans, copyOf(source, queries.FetchAllProviderBooleans(), queries.StoreProviderBooleans, list[models.ProviderBoolean])},
	}
}

// Stages returns the stage names in execution order.
func Stages() []string {
	return lo.Map(stages(nil), func(s stage, _ int) string { return s.name })
}

func requireOpen(db database.Database) error {
	if state := db.State(); state != database.StateOpen {
		return &database.NotOpenError{Name: db.Name(), State: state}
	}
	return nil
}

// Copy replaces the contents of destination with the contents of source in
// one transaction. Both databases must be OPEN. When source has no players
// the destination is left untouched and the result is Skipped.
//
// Copy waits for the transaction with ctx. If ctx ends first the error wraps
// database.ErrOutcomeUnknown and the copy may still commit.
func Copy(ctx context.Context, source, destination database.Database, opts Options) (*Result, error) {
	if source == destination {
		return nil, ErrSameDatabase
	}
	if err := requireOpen(destination); err != nil {
		return nil, err
	}
	if err := requireOpen(source); err != nil {
		return nil, err
	}

	ctx = logging.EnsureCorrelationID(ctx)
	log := logging.Ctx(ctx).With().
		Str("source", source.Name()).
		Str("destination", destination.Name()).
		Logger()

	result := &Result{
		Source:        source.Name(),
		Destination:   destination.Name(),
		StartedAt:     time.Now(),
		CorrelationID: logging.CorrelationIDFromContext(ctx),
	}

	users, err := database.RunQuery(ctx, source, queries.BaseUserCount())
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("count players of %s: %w", source.Name(), err)
	}
	if users == 0 {
		result.Skipped = true
		result.Duration = time.Since(result.StartedAt)
		metrics.BackupsTotal.WithLabelValues("skipped").Inc()
		log.Info().Msg("Source has no players, copy skipped")
		return result, nil
	}

	// Written only by the transaction goroutine; read after the handle is done.
	var done []StageResult

	tx := database.NewTransaction(TransactionName)
	for _, s := range stages(source) {
		tx.Then(s.name, database.ExecutableFunc(func(ctx context.Context, conn *database.Conn) (bool, error) {
			if s.name == StageClear {
				done = done[:0]
			}
			start := time.Now()
			rows, err := s.run(ctx, conn)
			if err != nil {
				return false, err
			}
			sr := StageResult{Name: s.name, Rows: rows, Duration: time.Since(start)}
			done = append(done, sr)
			log.Debug().Str("stage", sr.Name).Int("rows", sr.Rows).Dur("duration", sr.Duration).Msg("Copy stage written")
			if opts.OnStage != nil {
				opts.OnStage(sr)
			}
			return true, nil
		}))
	}

	priority := database.Critical
	if opts.Background {
		priority = database.NonCritical
	}

	err = destination.ExecuteTransaction(tx, priority).Wait(ctx)
	result.Duration = time.Since(result.StartedAt)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Dur("duration", result.Duration).Msg("Copy failed")
		return nil, err
	}

	result.Stages = done
	for _, sr := range result.Stages {
		metrics.RecordBackupStage(sr.Name, sr.Rows, sr.Duration)
	}
	metrics.BackupsTotal.WithLabelValues("completed").Inc()
	log.Info().
		Int("rows", result.Rows()).
		Int("stages", len(result.Stages)).
		Dur("duration", result.Duration).
		Msg("Copy completed")
	return result, nil
}

// Wipe deletes every row of db in one transaction.
func Wipe(ctx context.Context, db database.Database) error {
	if err := db.ExecuteTransactionSync(ctx, database.Single("wipe", queries.RemoveEverything())); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("database", db.Name()).Msg("Database wiped")
	return nil
}
