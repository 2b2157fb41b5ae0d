// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package testinfra

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/playerstats/internal/database"
	"github.com/tomtom215/playerstats/internal/models"
	"github.com/tomtom215/playerstats/internal/queries"
)

// Fixed identities used by the sample dataset.
var (
	ServerLobby    = uuid.MustParse("6f1b2c4e-0a4e-4f59-9a4b-0c3d2e1f0a01")
	ServerSurvival = uuid.MustParse("6f1b2c4e-0a4e-4f59-9a4b-0c3d2e1f0a02")

	PlayerAlice = uuid.MustParse("9c0d2a7e-5b1f-4e0a-8f3e-1a2b3c4d5e01")
	PlayerBob   = uuid.MustParse("9c0d2a7e-5b1f-4e0a-8f3e-1a2b3c4d5e02")
	PlayerCarol = uuid.MustParse("9c0d2a7e-5b1f-4e0a-8f3e-1a2b3c4d5e03")
)

// Dataset holds one value of every portable entity.
type Dataset struct {
	Servers          map[uuid.UUID]models.Server
	Users            []models.BaseUser
	UserInfo         map[uuid.UUID][]models.UserInfo
	Worlds           map[uuid.UUID][]string
	Nicknames        map[uuid.UUID][]models.Nickname
	GeoInfo          map[uuid.UUID][]models.GeoInfo
	CommandUse       map[uuid.UUID]models.CommandUse
	TPS              map[uuid.UUID][]models.TPS
	Ping             map[uuid.UUID][]models.Ping
	Sessions         queries.Sessions
	WebUsers         []models.WebUser
	ProviderBooleans []models.ProviderBoolean
}

// Transaction stores the whole dataset.
func (d Dataset) Transaction() *database.Transaction {
	return database.NewTransaction("fixture").
		Then("servers", queries.StoreAllServers(d.Servers)).
		Then("users", queries.StoreAllBaseUsers(d.Users)).
		Then("user_info", queries.StoreAllUserInfo(d.UserInfo)).
		Then("worlds", queries.StoreAllWorldNames(d.Worlds)).
		Then("nicknames", queries.StoreAllNicknames(d.Nicknames)).
		Then("geolocations", queries.StoreAllGeoInfo(d.GeoInfo)).
		Then("command_use", queries.StoreAllCommandUsage(d.CommandUse)).
		Then("tps", queries.StoreAllTPS(d.TPS)).
		Then("ping", queries.StoreAllPing(d.Ping)).
		Then("sessions", queries.StoreAllSessions(d.Sessions)).
		Then("web_users", queries.StoreAllWebUsers(d.WebUsers)).
		Then("provider_booleans", queries.StoreProviderBooleans(d.ProviderBooleans))
}

// Sample builds a small dataset whose timestamps are relative to now (epoch ms).
//
// Alice is banned on the lobby, an operator on survival, and her latest
// geolocation is Sweden. Bob plays on survival from Finland. Carol only
// registered on the lobby and never played.
func Sample(now int64) Dataset {
	day := (24 * time.Hour).Milliseconds()
	hour := time.Hour.Milliseconds()

	d := Dataset{
		Servers: map[uuid.UUID]models.Server{
			ServerLobby:    {UUID: ServerLobby, Name: "Lobby", WebAddress: "http://lobby.example:8804", MaxPlayers: 100, Installed: true},
			ServerSurvival: {UUID: ServerSurvival, Name: "Survival", MaxPlayers: 50, Installed: true},
		},
		Users: []models.BaseUser{
			{UUID: PlayerAlice, Name: "Alice", Registered: now - 30*day, TimesKicked: 2},
			{UUID: PlayerBob, Name: "Bob", Registered: now - 10*day},
			{UUID: PlayerCarol, Name: "Carol", Registered: now - 1*day},
		},
		UserInfo: map[uuid.UUID][]models.UserInfo{
			ServerLobby: {
				{PlayerUUID: PlayerAlice, ServerUUID: ServerLobby, Registered: now - 30*day, Banned: true, JoinAddress: "play.example"},
				{PlayerUUID: PlayerCarol, ServerUUID: ServerLobby, Registered: now - 1*day},
			},
			ServerSurvival: {
				{PlayerUUID: PlayerAlice, ServerUUID: ServerSurvival, Registered: now - 29*day, Operator: true},
				{PlayerUUID: PlayerBob, ServerUUID: ServerSurvival, Registered: now - 10*day},
			},
		},
		Worlds: map[uuid.UUID][]string{
			ServerLobby:    {"hub"},
			ServerSurvival: {"world", "world_nether"},
		},
		Nicknames: map[uuid.UUID][]models.Nickname{
			PlayerAlice: {{PlayerUUID: PlayerAlice, ServerUUID: ServerLobby, Name: "&aAlice", LastUsed: now - 2*day}},
		},
		GeoInfo: map[uuid.UUID][]models.GeoInfo{
			PlayerAlice: {
				models.NewGeoInfo(PlayerAlice, "10.0.0.1", "Finland", now-20*day),
				models.NewGeoInfo(PlayerAlice, "10.0.0.2", "Sweden", now-2*day),
			},
			PlayerBob: {models.NewGeoInfo(PlayerBob, "10.0.0.3", "Finland", now-3*day)},
		},
		CommandUse: map[uuid.UUID]models.CommandUse{
			ServerSurvival: {"plan": 1, "tp": 4, "pla": 7, "help": 21},
		},
		TPS: map[uuid.UUID][]models.TPS{
			ServerSurvival: {
				{ServerUUID: ServerSurvival, Date: now - hour, TicksPerSecond: 19.8, PlayersOnline: 2, CPUUsage: 0.42, UsedMemory: 2048, Entities: 350, ChunksLoaded: 900, FreeDiskSpace: 50000},
				{ServerUUID: ServerSurvival, Date: now, TicksPerSecond: 20, PlayersOnline: 1, CPUUsage: 0.31, UsedMemory: 1900, Entities: 320, ChunksLoaded: 880, FreeDiskSpace: 49990},
			},
		},
		Ping: map[uuid.UUID][]models.Ping{
			PlayerBob: {{PlayerUUID: PlayerBob, ServerUUID: ServerSurvival, Date: now - hour, Min: 20, Max: 80, Avg: 35.5}},
		},
		Sessions: queries.Sessions{},
		WebUsers: []models.WebUser{
			// Precomputed bcrypt hash of "password".
			{Name: "admin", PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", PermissionLevel: 0},
		},
		ProviderBooleans: []models.ProviderBoolean{
			{ServerUUID: ServerSurvival, PluginName: "Essentials", ProviderName: "Jailed", PlayerUUID: PlayerAlice, Value: true},
			{ServerUUID: ServerSurvival, PluginName: "Essentials", ProviderName: "Jailed", PlayerUUID: PlayerBob, Value: false},
		},
	}

	// Alice: one session on survival two days ago, with a kill of Bob.
	alice := models.Session{
		PlayerUUID: PlayerAlice, ServerUUID: ServerSurvival,
		Start: now - 2*day, End: now - 2*day + 2*hour, AFKTime: 10 * 60 * 1000, Deaths: 1, MobKills: 12,
		WorldTimes: models.WorldTimes{},
		Kills: []models.PlayerKill{
			{KillerUUID: PlayerAlice, VictimUUID: PlayerBob, ServerUUID: ServerSurvival, VictimName: "Bob", Weapon: "Diamond Sword", Date: now - 2*day + hour},
		},
	}
	alice.WorldTimes.Add("world", models.Survival, hour)
	alice.WorldTimes.Add("world_nether", models.Survival, 40*60*1000)
	alice.WorldTimes.Add("world_nether", models.Creative, 10*60*1000)
	d.Sessions.Add(alice)

	// Bob: two sessions on survival, three and nine days ago.
	for _, ago := range []int64{3, 9} {
		bob := models.Session{
			PlayerUUID: PlayerBob, ServerUUID: ServerSurvival,
			Start: now - ago*day, End: now - ago*day + hour, Deaths: 2, MobKills: 3,
			WorldTimes: models.WorldTimes{},
		}
		bob.WorldTimes.Add("world", models.Survival, hour)
		d.Sessions.Add(bob)
	}
	return d
}
