// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package queries_test

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
	"github.com/tomtom215/playerstats/internal/queries"
	"github.com/tomtom215/playerstats/internal/testinfra"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC).UnixMilli()

type backend struct {
	name string
	open func(t *testing.T) database.Database
}

var backends = []backend{
	{"sqlite", func(t *testing.T) database.Database { return testinfra.OpenSQLite(t, "queries") }},
	{"duckdb", func(t *testing.T) database.Database { return testinfra.OpenDuckDB(t, "queries") }},
}

func seeded(t *testing.T, open func(t *testing.T) database.Database) (database.Database, testinfra.Dataset) {
	t.Helper()
	db := open(t)
	data := testinfra.Sample(now)
	testinfra.Execute(t, db, data.Transaction())
	return db, data
}

func sortedSessions(s queries.Sessions) queries.Sessions {
	for _, perPlayer := range s {
		for player, sessions := range perPlayer {
			slices.SortFunc(sessions, func(a, b models.Session) int { return cmp.Compare(a.Start, b.Start) })
			perPlayer[player] = sessions
		}
	}
	return s
}

func sortedUsers(users []models.BaseUser) []models.BaseUser {
	slices.SortFunc(users, func(a, b models.BaseUser) int { return cmp.Compare(a.Name, b.Name) })
	return users
}

func TestRoundTrip(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			db, want := seeded(t, b.open)

			if got := testinfra.Query(t, db, queries.FetchAllServers()); !reflect.DeepEqual(got, want.Servers) {
				t.Errorf("servers = %+v, want %+v", got, want.Servers)
			}
			if got := sortedUsers(testinfra.Query(t, db, queries.FetchAllBaseUsers())); !reflect.DeepEqual(got, sortedUsers(want.Users)) {
				t.Errorf("users = %+v, want %+v", got, want.Users)
			}
			gotInfo := testinfra.Query(t, db, queries.FetchAllUserInfo())
			for server, infos := range want.UserInfo {
				if !slices.Equal(gotInfo[server], infos) {
					t.Errorf("user_info[%s] = %+v, want %+v", server, gotInfo[server], infos)
				}
			}
			if got := testinfra.Query(t, db, queries.FetchAllWorldNames()); !reflect.DeepEqual(got, want.Worlds) {
				t.Errorf("worlds = %v, want %v", got, want.Worlds)
			}
			if got := testinfra.Query(t, db, queries.FetchAllNicknames()); !reflect.DeepEqual(got, want.Nicknames) {
				t.Errorf("nicknames = %+v, want %+v", got, want.Nicknames)
			}
			if got := testinfra.Query(t, db, queries.FetchAllGeoInfo()); !reflect.DeepEqual(got, want.GeoInfo) {
				t.Errorf("geolocations = %+v, want %+v", got, want.GeoInfo)
			}
			if got := testinfra.Query(t, db, queries.FetchAllCommandUsage()); !reflect.DeepEqual(got, want.CommandUse) {
				t.Errorf("command usage = %v, want %v", got, want.CommandUse)
			}
			if got := testinfra.Query(t, db, queries.FetchAllTPS()); !reflect.DeepEqual(got, want.TPS) {
				t.Errorf("tps = %+v, want %+v", got, want.TPS)
			}
			if got := testinfra.Query(t, db, queries.FetchAllPing()); !reflect.DeepEqual(got, want.Ping) {
				t.Errorf("ping = %+v, want %+v", got, want.Ping)
			}
			gotSessions := sortedSessions(testinfra.Query(t, db, queries.FetchAllSessions()))
			if !reflect.DeepEqual(gotSessions, sortedSessions(want.Sessions)) {
				t.Errorf("sessions = %+v, want %+v", gotSessions, want.Sessions)
			}
			if got := testinfra.Query(t, db, queries.FetchAllWebUsers()); !reflect.DeepEqual(got, want.WebUsers) {
				t.Errorf("web users = %+v, want %+v", got, want.WebUsers)
			}
			if got := testinfra.Query(t, db, queries.FetchAllProviderBooleans()); !reflect.DeepEqual(got, want.ProviderBooleans) {
				t.Errorf("provider booleans = %+v, want %+v", got, want.ProviderBooleans)
			}
		})
	}
}

func TestStoreEmptyIsNoOp(t *testing.T) {
	db := testinfra.OpenSQLite(t, "empty")
	tests := []struct {
		name string
		exec database.Executable
	}{
		{"servers", queries.StoreAllServers(nil)},
		{"users", queries.StoreAllBaseUsers(nil)},
		{"user_info", queries.StoreAllUserInfo(nil)},
		{"worlds", queries.StoreAllWorldNames(nil)},
		{"nicknames", queries.StoreAllNicknames(nil)},
		{"geolocations", queries.StoreAllGeoInfo(nil)},
		{"command_use", queries.StoreAllCommandUsage(nil)},
		{"tps", queries.StoreAllTPS(nil)},
		{"ping", queries.StoreAllPing(nil)},
		{"sessions", queries.StoreAllSessions(nil)},
		{"web_users", queries.StoreAllWebUsers(nil)},
		{"provider_booleans", queries.StoreProviderBooleans(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := db.ExecuteTransaction(database.Single(tt.name, tt.exec), database.Critical)
			if err := h.Wait(context.Background()); err != nil {
				t.Fatal(err)
			}
			if h.Did() {
				t.Error("empty store reported work")
			}
		})
	}
}

func TestCommandUsageCounts(t *testing.T) {
	db := testinfra.OpenSQLite(t, "commands")
	server := testinfra.ServerSurvival

	uses := map[string]int{"plan": 1, "tp": 4, "pla": 7, "help": 21}
	tx := database.NewTransaction("commands")
	for command, times := range uses {
		for i := 0; i < times; i++ {
			tx.Then(command, queries.IncrementCommandUse(server, command))
		}
	}
	testinfra.Execute(t, db, tx)

	got := testinfra.Query(t, db, queries.CommandUsageCounts(server))
	if !reflect.DeepEqual(map[string]int(got), uses) {
		t.Errorf("CommandUsageCounts() = %v, want %v", got, uses)
	}
	if got.Total() != 33 {
		t.Errorf("Total() = %d, want 33", got.Total())
	}

	t.Run("commands are case insensitive", func(t *testing.T) {
		testinfra.Execute(t, db, database.Single("tp", queries.IncrementCommandUse(server, "TP")))
		if got := testinfra.Query(t, db, queries.CommandUsageCounts(server)); got["tp"] != 5 {
			t.Errorf("tp = %d, want 5", got["tp"])
		}
	})

	t.Run("other servers are separate", func(t *testing.T) {
		if got := testinfra.Query(t, db, queries.CommandUsageCounts(testinfra.ServerLobby)); len(got) != 0 {
			t.Errorf("lobby commands = %v, want none", got)
		}
	})
}

func TestWorldTimesAggregates(t *testing.T) {
	db := testinfra.OpenSQLite(t, "worlds")
	player := uuid.MustParse("0b5d9a44-2f3a-4b5e-9c1d-6e7f8a9b0c1d")
	server := testinfra.ServerSurvival

	session := models.Session{
		PlayerUUID: player, ServerUUID: server,
		Start: now - 15000, End: now, AFKTime: 5000,
		WorldTimes: models.WorldTimes{},
	}
	session.WorldTimes.Add("world", models.Survival, 4000)
	session.WorldTimes.Add("world", models.Creative, 1000)
	session.WorldTimes.Add("world_the_end", models.Spectator, 5000)

	testinfra.Execute(t, db, database.Single("session", queries.StoreSession(session)))

	for name, q := range map[string]database.Query[models.WorldTimes]{
		"server": queries.WorldTimesOfServer(server),
		"player": queries.WorldTimesOfPlayer(player),
	} {
		t.Run(name, func(t *testing.T) {
			got := testinfra.Query(t, db, q)
			if got.Total() != 10000 {
				t.Errorf("Total() = %d, want 10000", got.Total())
			}
			if got.WorldTotal("world") != 5000 || got.WorldTotal("world_the_end") != 5000 {
				t.Errorf("world totals = %v", got)
			}
		})
	}
}

func TestSessionsSharingStartKeepTheirDetails(t *testing.T) {
	player := uuid.MustParse("0b5d9a44-2f3a-4b5e-9c1d-6e7f8a9b0c1d")
	server := testinfra.ServerSurvival
	start := now - 60000

	session := func(end int64, world, weapon string) models.Session {
		return models.Session{
			PlayerUUID: player, ServerUUID: server,
			Start: start, End: end,
			WorldTimes: models.WorldTimes{world: {models.Survival: end - start}},
			Kills: []models.PlayerKill{{
				KillerUUID: player, VictimUUID: testinfra.PlayerBob, ServerUUID: server,
				Weapon: weapon, Date: end,
			}},
		}
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			db := b.open(t)
			stored := queries.Sessions{}
			stored.Add(session(start+10000, "world", "Sword"))
			stored.Add(session(start+30000, "world_nether", "Bow"))
			testinfra.Execute(t, db, database.Single("sessions", queries.StoreAllSessions(stored)))

			got := testinfra.Query(t, db, queries.FetchAllSessions())[server][player]
			if len(got) != 2 {
				t.Fatalf("sessions = %d, want 2", len(got))
			}
			slices.SortFunc(got, func(a, b models.Session) int { return cmp.Compare(a.End, b.End) })

			for i, want := range []struct {
				world  string
				weapon string
				time   int64
			}{
				{"world", "Sword", 10000},
				{"world_nether", "Bow", 30000},
			} {
				s := got[i]
				if len(s.WorldTimes) != 1 || s.WorldTimes.WorldTotal(want.world) != want.time {
					t.Errorf("session %d world times = %v, want %s for %d", i, s.WorldTimes, want.world, want.time)
				}
				if len(s.Kills) != 1 || s.Kills[0].Weapon != want.weapon {
					t.Errorf("session %d kills = %v, want one with %s", i, s.Kills, want.weapon)
				}
			}
		})
	}
}

func TestFetchAllReadsEveryPage(t *testing.T) {
	// Five rows per table over pages of two.
	db := testinfra.OpenSQLite(t, "paged", database.WithFetchSize(2))
	server := testinfra.ServerSurvival

	servers := map[uuid.UUID]models.Server{}
	var users []models.WebUser
	worlds := map[uuid.UUID][]string{}
	commands := map[uuid.UUID]models.CommandUse{server: {}}
	for i := range 5 {
		id := uuid.New()
		servers[id] = models.Server{UUID: id, Name: fmt.Sprintf("server-%d", i), MaxPlayers: -1, Installed: true}
		users = append(users, models.WebUser{Name: fmt.Sprintf("admin-%d", i), PasswordHash: "hash", PermissionLevel: i})
		worlds[server] = append(worlds[server], fmt.Sprintf("world-%d", i))
		commands[server][fmt.Sprintf("cmd%d", i)] = i + 1
	}
	testinfra.Execute(t, db, database.NewTransaction("seed").
		Then("servers", queries.StoreAllServers(servers)).
		Then("web_users", queries.StoreAllWebUsers(users)).
		Then("worlds", queries.StoreAllWorldNames(worlds)).
		Then("commands", queries.StoreAllCommandUsage(commands)))

	if got := testinfra.Query(t, db, queries.FetchAllServers()); len(got) != 5 {
		t.Errorf("servers = %d, want 5", len(got))
	}
	if got := testinfra.Query(t, db, queries.FetchAllWebUsers()); len(got) != 5 || got[4].Name != "admin-4" {
		t.Errorf("web users = %v, want 5 in insertion order", got)
	}
	if got := testinfra.Query(t, db, queries.FetchAllWorldNames()); len(got[server]) != 5 {
		t.Errorf("worlds = %v, want 5", got[server])
	}
	if got := testinfra.Query(t, db, queries.FetchAllCommandUsage()); !reflect.DeepEqual(got[server], commands[server]) {
		t.Errorf("commands = %v, want %v", got[server], commands[server])
	}
}

func TestStoreSessionValidates(t *testing.T) {
	db := testinfra.OpenSQLite(t, "invalid")
	bad := models.Session{
		PlayerUUID: testinfra.PlayerBob, ServerUUID: testinfra.ServerSurvival,
		Start: now - 1000, End: now,
		WorldTimes: models.WorldTimes{"world": {models.Survival: 5}},
	}
	err := db.ExecuteTransactionSync(context.Background(), database.Single("session", queries.StoreSession(bad)))
	if !errors.Is(err, models.ErrInvalidSession) {
		t.Errorf("error = %v, want ErrInvalidSession", err)
	}
	if n := testinfra.Query(t, db, queries.SessionCount()); n != 0 {
		t.Errorf("SessionCount() = %d, want 0", n)
	}
}

func TestAggregates(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			db, _ := seeded(t, b.open)

			if n := testinfra.Query(t, db, queries.BaseUserCount()); n != 3 {
				t.Errorf("BaseUserCount() = %d, want 3", n)
			}
			if n := testinfra.Query(t, db, queries.SessionCount()); n != 3 {
				t.Errorf("SessionCount() = %d, want 3", n)
			}

			counts := testinfra.Query(t, db, queries.ServerUserCounts())
			want := map[uuid.UUID]int{testinfra.ServerLobby: 2, testinfra.ServerSurvival: 2}
			if !reflect.DeepEqual(counts, want) {
				t.Errorf("ServerUserCounts() = %v, want %v", counts, want)
			}

			geo := testinfra.Query(t, db, queries.GeolocationCounts())
			if !reflect.DeepEqual(geo, map[string]int{"Sweden": 1, "Finland": 1}) {
				t.Errorf("GeolocationCounts() = %v", geo)
			}

			day := (24 * time.Hour).Milliseconds()
			if n := testinfra.Query(t, db, queries.UniquePlayerCountBetween(now-4*day, now)); n != 2 {
				t.Errorf("UniquePlayerCountBetween(4 days) = %d, want 2", n)
			}
			if n := testinfra.Query(t, db, queries.UniquePlayerCountBetween(now-day, now)); n != 0 {
				t.Errorf("UniquePlayerCountBetween(1 day) = %d, want 0", n)
			}

			bounds := testinfra.Query(t, db, queries.SessionDateBounds())
			if bounds.First != now-9*day {
				t.Errorf("First = %d, want %d", bounds.First, now-9*day)
			}

			names := testinfra.Query(t, db, queries.ServerNames())
			if !slices.Equal(names, []string{"Lobby", "Survival"}) {
				t.Errorf("ServerNames() = %v", names)
			}
			if geos := testinfra.Query(t, db, queries.DistinctGeolocations()); !slices.Equal(geos, []string{"Finland", "Sweden"}) {
				t.Errorf("DistinctGeolocations() = %v", geos)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	db, _ := seeded(t, backends[0].open)
	ids := testinfra.Query(t, db, queries.UserIDsByUUID([]uuid.UUID{testinfra.PlayerAlice, testinfra.PlayerBob, testinfra.PlayerCarol}))
	alice, bob, carol := ids[testinfra.PlayerAlice], ids[testinfra.PlayerBob], ids[testinfra.PlayerCarol]
	if len(ids) != 3 {
		t.Fatalf("UserIDsByUUID() = %v, want three users", ids)
	}

	set := func(members ...int) queries.UserIDs {
		s := queries.UserIDs{}
		for _, m := range members {
			s.Add(m)
		}
		return s
	}
	day := (24 * time.Hour).Milliseconds()

	tests := []struct {
		name  string
		query database.Query[queries.UserIDs]
		want  queries.UserIDs
	}{
		{"all", queries.AllUserIDs(), set(alice, bob, carol)},
		{"banned", queries.BannedUserIDs(true), set(alice)},
		{"not banned", queries.BannedUserIDs(false), set(alice, bob, carol)},
		{"operators", queries.OperatorUserIDs(true), set(alice)},
		{"played last week", queries.UserIDsPlayedBetween(now-7*day, now), set(alice, bob)},
		{"played long ago", queries.UserIDsPlayedBetween(now-100*day, now-50*day), set()},
		{"registered recently", queries.UserIDsRegisteredBetween(now-2*day, now), set(carol)},
		{"lobby", queries.UserIDsRegisteredOnServers([]string{"Lobby"}), set(alice, carol)},
		{"no servers", queries.UserIDsRegisteredOnServers(nil), set()},
		{"latest finland", queries.UserIDsOfLatestGeolocations([]string{"Finland"}), set(bob)},
		{"latest sweden or finland", queries.UserIDsOfLatestGeolocations([]string{"Sweden", "Finland"}), set(alice, bob)},
		{"jailed", queries.UserIDsWithProviderBoolean(queries.BooleanProvider{Server: "Survival", Plugin: "Essentials", Provider: "Jailed"}, true), set(alice)},
		{"not jailed", queries.UserIDsWithProviderBoolean(queries.BooleanProvider{Server: "Survival", Plugin: "Essentials", Provider: "Jailed"}, false), set(bob)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testinfra.Query(t, db, tt.query); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("sessions by user id", func(t *testing.T) {
		byUser := testinfra.Query(t, db, queries.SessionsByUserIDBetween(now-7*day, now))
		if len(byUser[alice]) != 1 || len(byUser[bob]) != 1 || len(byUser[carol]) != 0 {
			t.Errorf("SessionsByUserIDBetween() = %v", byUser)
		}
	})

	t.Run("boolean providers", func(t *testing.T) {
		providers := testinfra.Query(t, db, queries.BooleanProviders())
		want := []queries.BooleanProvider{{Server: "Survival", Plugin: "Essentials", Provider: "Jailed"}}
		if !slices.Equal(providers, want) {
			t.Errorf("BooleanProviders() = %v, want %v", providers, want)
		}
	})
}

func TestSingleEntityOperations(t *testing.T) {
	db := testinfra.OpenSQLite(t, "single")
	player, server := testinfra.PlayerCarol, testinfra.ServerLobby

	testinfra.Execute(t, db, database.NewTransaction("register").
		Then("server", queries.RegisterServer(models.Server{UUID: server, Name: "Lobby", Installed: true})).
		Then("user", queries.RegisterBaseUser(models.BaseUser{UUID: player, Name: "Carol", Registered: now})).
		Then("user_info", queries.RegisterUserInfo(models.UserInfo{PlayerUUID: player, ServerUUID: server, Registered: now})))

	testinfra.Execute(t, db, database.NewTransaction("update").
		Then("rename", queries.RegisterBaseUser(models.BaseUser{UUID: player, Name: "Caroline", Registered: now + 1000})).
		Then("server", queries.RegisterServer(models.Server{UUID: server, Name: "Hub", Installed: true, MaxPlayers: 20})).
		Then("kick", queries.IncrementKicked(player)).
		Then("ban", queries.UpdateBanStatus(player, server, true)).
		Then("op", queries.UpdateOperatorStatus(player, server, true)).
		Then("geo", queries.StoreGeoInfo(models.NewGeoInfo(player, "10.1.1.1", "Norway", now))).
		Then("geo again", queries.StoreGeoInfo(models.NewGeoInfo(player, "10.1.1.1", "Norway", now+5000))).
		Then("nickname", queries.StoreNickname(models.Nickname{PlayerUUID: player, ServerUUID: server, Name: "Caz", LastUsed: now})).
		Then("tps", queries.StoreTPS(models.TPS{ServerUUID: server, Date: now, TicksPerSecond: 20})).
		Then("ping", queries.StorePing(models.Ping{PlayerUUID: player, ServerUUID: server, Date: now, Min: 1, Max: 3, Avg: 2})).
		Then("web user", queries.RegisterWebUser(models.WebUser{Name: "carol", PasswordHash: "x", PermissionLevel: 2})).
		Then("web user again", queries.RegisterWebUser(models.WebUser{Name: "carol", PasswordHash: "y", PermissionLevel: 1})).
		Then("jailed", queries.StoreProviderBoolean(models.ProviderBoolean{ServerUUID: server, PluginName: "Jail", ProviderName: "Jailed", PlayerUUID: player, Value: true})))

	users := testinfra.Query(t, db, queries.FetchAllBaseUsers())
	if len(users) != 1 || users[0].Name != "Caroline" || users[0].Registered != now || users[0].TimesKicked != 1 {
		t.Errorf("users = %+v", users)
	}
	servers := testinfra.Query(t, db, queries.FetchAllServers())
	if len(servers) != 1 || servers[server].Name != "Hub" || servers[server].MaxPlayers != 20 {
		t.Errorf("servers = %+v", servers)
	}
	info := testinfra.Query(t, db, queries.FetchAllUserInfo())[server]
	if len(info) != 1 || !info[0].Banned || !info[0].Operator {
		t.Errorf("user_info = %+v", info)
	}
	geo := testinfra.Query(t, db, queries.FetchAllGeoInfo())[player]
	if len(geo) != 1 || geo[0].LastUsed != now+5000 {
		t.Errorf("geolocations = %+v, want one refreshed row", geo)
	}
	web := testinfra.Query(t, db, queries.FetchAllWebUsers())
	if len(web) != 1 || web[0].PasswordHash != "y" || web[0].PermissionLevel != 1 {
		t.Errorf("web users = %+v", web)
	}
	if n := len(testinfra.Query(t, db, queries.FetchAllTPS())[server]); n != 1 {
		t.Errorf("tps samples = %d, want 1", n)
	}
}

func TestRemoveEverything(t *testing.T) {
	db, _ := seeded(t, backends[0].open)
	testinfra.Execute(t, db, database.Single("wipe", queries.RemoveEverything()))

	if n := testinfra.Query(t, db, queries.BaseUserCount()); n != 0 {
		t.Errorf("BaseUserCount() = %d after wipe", n)
	}
	if s := testinfra.Query(t, db, queries.FetchAllSessions()); len(s) != 0 {
		t.Errorf("sessions after wipe = %v", s)
	}
}
