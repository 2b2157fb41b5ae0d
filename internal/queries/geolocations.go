// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
)

// latestGeolocations selects each player's most recent geolocation rows.
const latestGeolocations = `SELECT g.uuid, g.geolocation FROM geolocations g
	JOIN (SELECT uuid, MAX(last_used) AS last_used FROM geolocations GROUP BY uuid) latest
	ON latest.uuid = g.uuid AND latest.last_used = g.last_used`

// FetchAllGeoInfo returns geolocation history keyed by player uuid.
func FetchAllGeoInfo() database.Query[map[uuid.UUID][]models.GeoInfo] {
	return database.Named("fetch_all_geo_info", func(ctx context.Context, conn *database.Conn) (map[uuid.UUID][]models.GeoInfo, error) {
		geo := map[uuid.UUID][]models.GeoInfo{}
		err := conn.QueryPaged(ctx, "SELECT id, uuid, ip, ip_hash, geolocation, last_used FROM geolocations WHERE id > ? ORDER BY id", nil,
			func(rows *sql.Rows) (int64, error) {
				var id int64
				var g models.GeoInfo
				var ip, hash sql.NullString
				if err := rows.Scan(&id, &g.PlayerUUID, &ip, &hash, &g.Geolocation, &g.LastUsed); err != nil {
					return 0, err
				}
				g.IP, g.IPHash = ip.String, hash.String
				geo[g.PlayerUUID] = append(geo[g.PlayerUUID], g)
				return id, nil
			})
		return geo, err
	})
}

// StoreAllGeoInfo inserts geolocation history of every player.
func StoreAllGeoInfo(geo map[uuid.UUID][]models.GeoInfo) database.Executable {
	var list []models.GeoInfo
	for _, perPlayer := range geo {
		list = append(list, perPlayer...)
	}
	return database.BatchInsert{
		Table:   database.TableGeolocations,
		Columns: []string{"uuid", "ip", "ip_hash", "geolocation", "last_used"},
		Rows: rowsOf(list, func(g models.GeoInfo) []any {
			return []any{g.PlayerUUID, nullString(g.IP), nullString(g.IPHash), g.Geolocation, g.LastUsed}
		}),
	}
}

// StoreGeoInfo records a geolocation, refreshing last_used for a known ip hash.
func StoreGeoInfo(g models.GeoInfo) database.Executable {
	if g.IPHash == "" && g.IP != "" {
		g.IPHash = models.HashIP(g.IP)
	}
	return upsert(
		database.Statement{
			SQL:  "UPDATE geolocations SET last_used = ?, geolocation = ? WHERE uuid = ? AND ip_hash = ?",
			Args: []any{g.LastUsed, g.Geolocation, g.PlayerUUID, g.IPHash},
		},
		database.Statement{
			SQL:  "INSERT INTO geolocations (uuid, ip, ip_hash, geolocation, last_used) VALUES (?, ?, ?, ?, ?)",
			Args: []any{g.PlayerUUID, nullString(g.IP), nullString(g.IPHash), g.Geolocation, g.LastUsed},
		},
	)
}

// GeolocationCounts counts players by their most recent geolocation.
func GeolocationCounts() database.Query[map[string]int] {
	return database.Named("geolocation_counts", func(ctx context.Context, conn *database.Conn) (map[string]int, error) {
		counts := map[string]int{}
		err := collect(ctx, conn, func(rows *sql.Rows) error {
			var geolocation string
			var n int
			if err := rows.Scan(&geolocation, &n); err != nil {
				return err
			}
			counts[geolocation] = n
			return nil
		}, "SELECT l.geolocation, COUNT(DISTINCT l.uuid) FROM ("+latestGeolocations+") l GROUP BY l.geolocation")
		return counts, err
	})
}

// DistinctGeolocations lists every geolocation seen, sorted.
func DistinctGeolocations() database.Query[[]string] {
	return func(ctx context.Context, conn *database.Conn) ([]string, error) {
		var geos []string
		err := collect(ctx, conn, func(rows *sql.Rows) error {
			var g string
			if err := rows.Scan(&g); err != nil {
				return err
			}
			geos = append(geos, g)
			return nil
		}, "SELECT DISTINCT geolocation FROM geolocations ORDER BY geolocation")
		return geos, err
	}
}
