// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"

	"github.com/tomtom215/playerstats/internal/database"
)

// RemoveEverything deletes every row of every table, dependents first.
func RemoveEverything() database.Executable {
	return database.ExecutableFunc(func(ctx context.Context, conn *database.Conn) (bool, error) {
		did := false
		for i := len(database.Tables) - 1; i >= 0; i-- {
			res, err := conn.Exec(ctx, "DELETE FROM "+database.Tables[i])
			if err != nil {
				return did, err
			}
			if n, err := res.RowsAffected(); err != nil || n > 0 {
				did = true
			}
		}
		return did, nil
	})
}
