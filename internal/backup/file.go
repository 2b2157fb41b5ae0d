// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomtom215/playerstats/internal/config"
	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/logging"
)

// OpenFile opens an SQLite or DuckDB file as a copy source or destination,
// creating the file and its schema when missing. The caller closes it.
func OpenFile(ctx context.Context, path, backend string, opts ...database.Option) (database.Database, error) {
	if path == "" {
		return nil, errors.New("backup file path is required")
	}
	name := "backup:" + filepath.Base(path)
	db, err := database.NewFile(name, backend, path, append([]database.Option{database.WithSchema(true)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := db.Open(ctx); err != nil {
		return nil, fmt.Errorf("open backup file %s: %w", path, err)
	}
	return db, nil
}

// Backup copies live into the backup file described by cfg.
func Backup(ctx context.Context, live database.Database, cfg config.BackupConfig) (*Result, error) {
	if err := requireOpen(live); err != nil {
		return nil, err
	}
	file, err := OpenFile(ctx, cfg.Path, cfg.Backend)
	if err != nil {
		return nil, err
	}
	defer closeFile(file)

	return Copy(ctx, live, file, Options{})
}

// Restore replaces the contents of live with the backup file described by
// cfg. The file must exist.
func Restore(ctx context.Context, cfg config.BackupConfig, live database.Database) (*Result, error) {
	if err := requireOpen(live); err != nil {
		return nil, err
	}
	if cfg.Path != database.MemoryPath {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("backup file: %w", err)
		}
	}
	file, err := OpenFile(ctx, cfg.Path, cfg.Backend)
	if err != nil {
		return nil, err
	}
	defer closeFile(file)

	return Copy(ctx, file, live, Options{})
}

func closeFile(db database.Database) {
	if err := db.Close(); err != nil {
		logging.Warn().Err(err).Str("database", db.Name()).Msg("Failed to close backup file")
	}
}
