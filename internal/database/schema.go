// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"fmt"
	"strings"
)

// Table names.
const (
	TableServers          = "servers"
	TableUsers            = "users"
	TableUserInfo         = "user_info"
	TableWorlds           = "worlds"
	TableNicknames        = "nicknames"
	TableGeolocations     = "geolocations"
	TableCommandUsage     = "commandusages"
	TableTPS              = "tps"
	TablePing             = "ping"
	TableSessions         = "sessions"
	TableWorldTimes       = "world_times"
	TableKills            = "kills"
	TableWebUsers         = "security"
	TableProviderBooleans = "extension_user_booleans"
)

// Tables lists every table in dependency order: a table only refers (by uuid
// or local id) to tables before it. Clear in reverse.
var Tables = []string{
	TableServers,
	TableUsers,
	TableUserInfo,
	TableWorlds,
	TableNicknames,
	TableGeolocations,
	TableCommandUsage,
	TableTPS,
	TablePing,
	TableSessions,
	TableWorldTimes,
	TableKills,
	TableWebUsers,
	TableProviderBooleans,
}

// tableColumns holds each table's columns after "id". Types are written
// portably; %BOOL% and %REAL% are replaced per dialect.
var tableColumns = map[string]string{
	TableServers: `uuid TEXT NOT NULL,
		name TEXT NOT NULL,
		web_address TEXT,
		is_installed %BOOL% NOT NULL DEFAULT TRUE,
		max_players INTEGER NOT NULL DEFAULT -1,
		is_proxy %BOOL% NOT NULL DEFAULT FALSE`,
	TableUsers: `uuid TEXT NOT NULL,
		registered BIGINT NOT NULL,
		name TEXT NOT NULL,
		times_kicked INTEGER NOT NULL DEFAULT 0`,
	TableUserInfo: `uuid TEXT NOT NULL,
		server_uuid TEXT NOT NULL,
		registered BIGINT NOT NULL,
		banned %BOOL% NOT NULL DEFAULT FALSE,
		opped %BOOL% NOT NULL DEFAULT FALSE,
		join_address TEXT`,
	TableWorlds: `world_name TEXT NOT NULL,
		server_uuid TEXT NOT NULL`,
	TableNicknames: `uuid TEXT NOT NULL,
		nickname TEXT NOT NULL,
		server_uuid TEXT NOT NULL,
		last_used BIGINT NOT NULL`,
	TableGeolocations: `uuid TEXT NOT NULL,
		ip TEXT,
		ip_hash TEXT,
		geolocation TEXT NOT NULL,
		last_used BIGINT NOT NULL`,
	TableCommandUsage: `server_uuid TEXT NOT NULL,
		command_name TEXT NOT NULL,
		times_used INTEGER NOT NULL`,
	TableTPS: `server_uuid TEXT NOT NULL,
		date BIGINT NOT NULL,
		tps %REAL% NOT NULL,
		players_online INTEGER NOT NULL,
		cpu_usage %REAL% NOT NULL,
		ram_usage BIGINT NOT NULL,
		entities INTEGER NOT NULL,
		chunks_loaded INTEGER NOT NULL,
		free_disk_space BIGINT NOT NULL`,
	TablePing: `uuid TEXT NOT NULL,
		server_uuid TEXT NOT NULL,
		date BIGINT NOT NULL,
		max_ping INTEGER NOT NULL,
		min_ping INTEGER NOT NULL,
		avg_ping %REAL% NOT NULL`,
	TableSessions: `uuid TEXT NOT NULL,
		server_uuid TEXT NOT NULL,
		session_start BIGINT NOT NULL,
		session_end BIGINT NOT NULL,
		mob_kills INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		afk_time BIGINT NOT NULL`,
	TableWorldTimes: `session_id BIGINT NOT NULL,
		world_id BIGINT NOT NULL,
		uuid TEXT NOT NULL,
		server_uuid TEXT NOT NULL,
		survival_time BIGINT NOT NULL DEFAULT 0,
		creative_time BIGINT NOT NULL DEFAULT 0,
		adventure_time BIGINT NOT NULL DEFAULT 0,
		spectator_time BIGINT NOT NULL DEFAULT 0`,
	TableKills: `killer_uuid TEXT NOT NULL,
		victim_uuid TEXT NOT NULL,
		server_uuid TEXT NOT NULL,
		weapon TEXT NOT NULL,
		date BIGINT NOT NULL,
		session_id BIGINT NOT NULL`,
	TableWebUsers: `username TEXT NOT NULL,
		salted_pass_hash TEXT NOT NULL,
		permission_level INTEGER NOT NULL`,
	TableProviderBooleans: `uuid TEXT NOT NULL,
		server_uuid TEXT NOT NULL,
		plugin_name TEXT NOT NULL,
		provider_name TEXT NOT NULL,
		boolean_value %BOOL% NOT NULL`,
}

// foreignKeys are appended to the table definitions on sqlite and postgres.
// DuckDB ids are sequence defaults without a primary key, so nothing can
// reference them. Tables are cleared in reverse order, children first.
var foreignKeys = map[string]string{
	TableWorldTimes: `FOREIGN KEY (session_id) REFERENCES sessions (id),
		FOREIGN KEY (world_id) REFERENCES worlds (id)`,
	TableKills: `FOREIGN KEY (session_id) REFERENCES sessions (id)`,
}

// indexes are created on sqlite and postgres. DuckDB scans without them.
var indexes = []struct{ name, table, columns string }{
	{"idx_users_uuid", TableUsers, "uuid"},
	{"idx_user_info_uuid", TableUserInfo, "uuid, server_uuid"},
	{"idx_worlds_server", TableWorlds, "server_uuid, world_name"},
	{"idx_geolocations_uuid", TableGeolocations, "uuid"},
	{"idx_sessions_player", TableSessions, "uuid, server_uuid, session_start"},
	{"idx_sessions_dates", TableSessions, "session_start, session_end"},
	{"idx_world_times_session", TableWorldTimes, "session_id"},
	{"idx_kills_session", TableKills, "session_id"},
	{"idx_tps_server_date", TableTPS, "server_uuid, date"},
	{"idx_ping_player", TablePing, "uuid, date"},
	{"idx_provider_booleans", TableProviderBooleans, "server_uuid, plugin_name, provider_name"},
}

// SchemaStatements returns the CREATE ... IF NOT EXISTS statements for d.
func SchemaStatements(d Dialect) []string {
	stmts := make([]string, 0, len(Tables)*2+len(indexes))
	replacer := strings.NewReplacer("%BOOL%", "BOOLEAN", "%REAL%", "DOUBLE PRECISION")

	for _, table := range Tables {
		var id string
		switch d.Name {
		case Postgres.Name:
			id = "id BIGSERIAL PRIMARY KEY"
		case DuckDB.Name:
			seq := "seq_" + table
			stmts = append(stmts, fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START 1", seq))
			id = fmt.Sprintf("id BIGINT NOT NULL DEFAULT nextval('%s')", seq)
		default:
			id = "id INTEGER PRIMARY KEY"
		}
		columns := replacer.Replace(tableColumns[table])
		if fk, ok := foreignKeys[table]; ok && d.Name != DuckDB.Name {
			columns += ",\n\t\t" + fk
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t\t%s,\n\t\t%s\n\t)",
			table, id, columns))
	}

	if d.Name != DuckDB.Name {
		for _, idx := range indexes {
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns))
		}
	}
	return stmts
}
