// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package models

import "github.com/google/uuid"

// Portable is implemented by entities that are identified by UUIDs only and
// can be copied between databases as-is. None of them has a field for a
// backend-local integer id; those stay in the id columns of the backend.
type Portable interface {
	portable()
}

// Server is a game server or proxy that reports into the database.
type Server struct {
	UUID       uuid.UUID `json:"uuid"`
	Name       string    `json:"name"`
	WebAddress string    `json:"web_address"`
	MaxPlayers int       `json:"max_players"`
	IsProxy    bool      `json:"is_proxy"`
	Installed  bool      `json:"installed"`
}

func (Server) portable() {}

// CommandUse maps a lowercased command name to the number of times it was used.
type CommandUse map[string]int

// Total returns the sum of all command uses.
func (c CommandUse) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

func (CommandUse) portable() {}

// Command is one command counter of a server.
type Command struct {
	ServerUUID uuid.UUID `json:"server_uuid"`
	Name       string    `json:"command"`
	TimesUsed  int       `json:"times_used"`
}

func (Command) portable() {}

// Commands lists the counters of server, one per command.
func (c CommandUse) Commands(server uuid.UUID) []Command {
	commands := make([]Command, 0, len(c))
	for name, n := range c {
		commands = append(commands, Command{ServerUUID: server, Name: name, TimesUsed: n})
	}
	return commands
}

// TPS is a server performance sample.
type TPS struct {
	ServerUUID     uuid.UUID `json:"server_uuid"`
	Date           int64     `json:"date"`
	TicksPerSecond float64   `json:"tps"`
	PlayersOnline  int       `json:"players_online"`
	CPUUsage       float64   `json:"cpu_usage"`
	UsedMemory     int64     `json:"used_memory"`
	Entities       int       `json:"entities"`
	ChunksLoaded   int       `json:"chunks_loaded"`
	FreeDiskSpace  int64     `json:"free_disk_space"`
}

func (TPS) portable() {}

// ProviderBoolean is a boolean value reported by a plugin data provider for a player.
type ProviderBoolean struct {
	ServerUUID   uuid.UUID `json:"server_uuid"`
	PluginName   string    `json:"plugin"`
	ProviderName string    `json:"provider"`
	PlayerUUID   uuid.UUID `json:"player_uuid"`
	Value        bool      `json:"value"`
}

func (ProviderBoolean) portable() {}
