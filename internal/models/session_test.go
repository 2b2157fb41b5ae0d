// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestWorldTimesTotal(t *testing.T) {
	wt := WorldTimes{}
	wt.Add("world", Survival, 1000)
	wt.Add("world", Creative, 2000)
	wt.Add("world_nether", Adventure, 3000)
	wt.Add("world_the_end", Spectator, 4000)

	if got := wt.Total(); got != 10000 {
		t.Errorf("Total() = %d, want 10000", got)
	}
	if got := wt.WorldTotal("world"); got != 3000 {
		t.Errorf("WorldTotal(world) = %d, want 3000", got)
	}
	if got := wt.WorldTotal("missing"); got != 0 {
		t.Errorf("WorldTotal(missing) = %d, want 0", got)
	}

	merged := WorldTimes{}
	merged.Merge(wt)
	merged.Merge(wt)
	if got := merged.Total(); got != 20000 {
		t.Errorf("merged Total() = %d, want 20000", got)
	}
}

func TestParseGameMode(t *testing.T) {
	tests := []struct {
		in      string
		want    GameMode
		wantErr bool
	}{
		{"SURVIVAL", Survival, false},
		{"creative", Creative, false},
		{" Adventure ", Adventure, false},
		{"hardcore", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGameMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGameMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGameMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSessionValidate(t *testing.T) {
	player, server := uuid.New(), uuid.New()
	base := Session{PlayerUUID: player, ServerUUID: server, Start: 1000, End: 11000, AFKTime: 0}

	t.Run("world times match length", func(t *testing.T) {
		s := base
		s.WorldTimes = WorldTimes{"world": {Survival: 4000, Creative: 6000}}
		if err := s.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("world times account for afk", func(t *testing.T) {
		s := base
		s.AFKTime = 2000
		s.WorldTimes = WorldTimes{"world": {Survival: 8000}}
		if err := s.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("world times mismatch", func(t *testing.T) {
		s := base
		s.WorldTimes = WorldTimes{"world": {Survival: 5}}
		if err := s.Validate(); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("Validate() = %v, want ErrInvalidSession", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		s := base
		s.End = 500
		if err := s.Validate(); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("Validate() = %v, want ErrInvalidSession", err)
		}
	})

	t.Run("active session", func(t *testing.T) {
		s := base
		s.End = 0
		if err := s.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
		if got := s.Length(6000); got != 5000 {
			t.Errorf("Length(6000) = %d, want 5000", got)
		}
	})
}

func TestSessionActivePlaytime(t *testing.T) {
	s := Session{Start: 0, End: 1000, AFKTime: 1500}
	if got := s.ActivePlaytime(0); got != 0 {
		t.Errorf("ActivePlaytime() = %d, want 0 when afk exceeds length", got)
	}
	s.AFKTime = 250
	if got := s.ActivePlaytime(0); got != 750 {
		t.Errorf("ActivePlaytime() = %d, want 750", got)
	}
}

func TestGeoInfoLatest(t *testing.T) {
	player := uuid.New()
	infos := []GeoInfo{
		NewGeoInfo(player, "1.1.1.1", "Finland", 100),
		NewGeoInfo(player, "2.2.2.2", "Sweden", 300),
		NewGeoInfo(player, "3.3.3.3", "Norway", 200),
	}
	latest, ok := Latest(infos)
	if !ok || latest.Geolocation != "Sweden" {
		t.Errorf("Latest() = %+v, %v; want Sweden", latest, ok)
	}
	if _, ok := Latest(nil); ok {
		t.Error("Latest(nil) reported a result")
	}
	if infos[0].IPHash == infos[0].IP || len(infos[0].IPHash) != 64 {
		t.Errorf("IPHash = %q, want hex sha256", infos[0].IPHash)
	}
	if HashIP("1.1.1.1") != infos[0].IPHash {
		t.Error("HashIP is not deterministic")
	}
}

func TestWebUserPassword(t *testing.T) {
	user, err := NewWebUser("admin", "correct horse", 0)
	if err != nil {
		t.Fatalf("NewWebUser() error = %v", err)
	}
	if !user.CheckPassword("correct horse") {
		t.Error("CheckPassword rejected the correct password")
	}
	if user.CheckPassword("battery staple") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
