// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// World is a named world of a server.
type World struct {
	ServerUUID uuid.UUID `json:"server_uuid"`
	Name       string    `json:"name"`
}

func (World) portable() {}

// GameMode is the game mode a player spent time in.
type GameMode string

const (
	Survival  GameMode = "SURVIVAL"
	Creative  GameMode = "CREATIVE"
	Adventure GameMode = "ADVENTURE"
	Spectator GameMode = "SPECTATOR"
)

// GameModes lists every game mode in storage column order.
var GameModes = []GameMode{Survival, Creative, Adventure, Spectator}

// ParseGameMode accepts any letter case.
func ParseGameMode(s string) (GameMode, error) {
	gm := GameMode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range GameModes {
		if gm == known {
			return gm, nil
		}
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// GMTimes is milliseconds spent per game mode.
type GMTimes map[GameMode]int64

// Total returns the sum over all game modes.
func (g GMTimes) Total() int64 {
	var total int64
	for _, ms := range g {
		total += ms
	}
	return total
}

// WorldTimes is milliseconds spent per world and game mode.
type WorldTimes map[string]GMTimes

// Add accumulates ms into world/mode.
func (w WorldTimes) Add(world string, mode GameMode, ms int64) {
	gm, ok := w[world]
	if !ok {
		gm = GMTimes{}
		w[world] = gm
	}
	gm[mode] += ms
}

// Merge adds every entry of other into w.
func (w WorldTimes) Merge(other WorldTimes) {
	for world, gm := range other {
		for mode, ms := range gm {
			w.Add(world, mode, ms)
		}
	}
}

// WorldTotal returns the time spent in one world.
func (w WorldTimes) WorldTotal(world string) int64 {
	return w[world].Total()
}

// Total returns the time spent in all worlds.
func (w WorldTimes) Total() int64 {
	var total int64
	for _, gm := range w {
		total += gm.Total()
	}
	return total
}
