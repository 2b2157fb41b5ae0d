// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package activity

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/tomtom215/playerstats/internal/models"
)

var (
	reference     = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	playThreshold = (30 * time.Minute).Milliseconds()
	player        = uuid.MustParse("5c8e1a4e-7b0f-4d8c-a1b2-c3d4e5f60718")
	server        = uuid.MustParse("5c8e1a4e-7b0f-4d8c-a1b2-c3d4e5f60719")
)

const hour = int64(time.Hour / time.Millisecond)

// sessionEnding builds a finished session of length ms that ends at end.
func sessionEnding(end, length int64) models.Session {
	return models.Session{PlayerUUID: player, ServerUUID: server, Start: end - length, End: end}
}

// weekly puts count sessions of length ms into each of the three windows.
func weekly(count int, length int64) []models.Session {
	var sessions []models.Session
	for week := int64(0); week < 3; week++ {
		for i := 0; i < count; i++ {
			end := reference - week*Week - int64(i+1)*6*hour
			sessions = append(sessions, sessionEnding(end, length))
		}
	}
	return sessions
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name      string
		sessions  []models.Session
		want      float64
		wantGroup Group
	}{
		{
			name:      "no sessions",
			sessions:  nil,
			want:      0,
			wantGroup: Inactive,
		},
		{
			name:      "heavy every week",
			sessions:  weekly(3, 2*hour),
			want:      maxPlaytimeRatio * 1.0 * 1.0 * heavyPlayBonus,
			wantGroup: VeryActive,
		},
		{
			name:      "steady two logins a week",
			sessions:  weekly(2, hour/2),
			want:      2.0 * 1.0 * 1.0 * heavyPlayBonus,
			wantGroup: Active,
		},
		{
			name:      "new player with one hour this week",
			sessions:  []models.Session{sessionEnding(reference-hour, hour)},
			want:      (2.0 + newPlayerWeek2 + newPlayerWeek3) / 3 * 0.5 * fewLoginsPenalty,
			wantGroup: Inactive,
		},
		{
			name: "session in progress ends at reference",
			sessions: []models.Session{
				{PlayerUUID: player, ServerUUID: server, Start: reference - hour},
			},
			want:      (2.0 + newPlayerWeek2 + newPlayerWeek3) / 3 * 0.5 * fewLoginsPenalty,
			wantGroup: Inactive,
		},
		{
			name:      "only sessions older than three weeks",
			sessions:  []models.Session{sessionEnding(reference-4*Week, 10*hour)},
			want:      0,
			wantGroup: Inactive,
		},
		{
			name:      "future sessions are ignored",
			sessions:  []models.Session{sessionEnding(reference+2*hour, hour)},
			want:      0,
			wantGroup: Inactive,
		},
		{
			name: "quiet week between active weeks",
			sessions: []models.Session{
				sessionEnding(reference-hour, hour),
				sessionEnding(reference-hour-2*Week, hour),
			},
			want:      (2.0 + gapWeekRatio + 2.0) / 3 * 0.5 * fewLoginsPenalty * heavyPlayBonus,
			wantGroup: Irregular,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Index(tt.sessions, reference, playThreshold, 2)
			if !approx(got, tt.want) {
				t.Errorf("Index() = %v, want %v", got, tt.want)
			}
			if g := Bucket(got); g != tt.wantGroup {
				t.Errorf("Bucket(%v) = %v, want %v", got, g, tt.wantGroup)
			}
		})
	}
}

func TestIndexAFKTimeIsNotPlaytime(t *testing.T) {
	s := sessionEnding(reference-hour, hour)
	s.AFKTime = hour
	if got := Index([]models.Session{s}, reference, playThreshold, 2); got != 0 {
		t.Errorf("Index() = %v, want 0 for a fully idle session", got)
	}
}

func TestIndexCountsSessionInEveryOverlappedWindow(t *testing.T) {
	// Spans the boundary between the first and second week.
	s := models.Session{PlayerUUID: player, ServerUUID: server, Start: reference - Week - hour, End: reference - Week + hour}
	one := Index([]models.Session{s}, reference, playThreshold, 1)

	// Two full hours land in both windows, so both ratios are 4.0 and logins are active.
	want := (maxPlaytimeRatio + maxPlaytimeRatio + newPlayerWeek3) / 3 * (1.0 + 1.0 + 0.5) / 3 * heavyPlayBonus
	if !approx(one, want) {
		t.Errorf("Index() = %v, want %v", one, want)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		score float64
		want  Group
	}{
		{5.0, VeryActive},
		{3.5, VeryActive},
		{3.49, Active},
		{1.75, Active},
		{1.74, Regular},
		{1.0, Regular},
		{0.99, Irregular},
		{0.5, Irregular},
		{0.49, Inactive},
		{0, Inactive},
	}
	for _, tt := range tests {
		if got := Bucket(tt.score); got != tt.want {
			t.Errorf("Bucket(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestGroupLabels(t *testing.T) {
	want := []string{"Very Active", "Active", "Regular", "Irregular", "Inactive"}
	groups := Groups()
	if len(groups) != len(want) {
		t.Fatalf("Groups() = %v", groups)
	}
	for i, g := range groups {
		if g.String() != want[i] {
			t.Errorf("Groups()[%d] = %q, want %q", i, g.String(), want[i])
		}
		parsed, ok := ParseGroup(want[i])
		if !ok || parsed != g {
			t.Errorf("ParseGroup(%q) = %v, %v", want[i], parsed, ok)
		}
	}
	if _, ok := ParseGroup("Sleepy"); ok {
		t.Error("ParseGroup accepted an unknown label")
	}
	if s := Group(42).String(); s != "Group(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestCalculator(t *testing.T) {
	calc := NewCalculator(30*time.Minute, 2)
	sessions := weekly(2, hour/2)
	if got := calc.Group(sessions, reference); got != Active {
		t.Errorf("Group() = %v, want Active", got)
	}
	if got := calc.Lookback(reference); got != reference-3*Week {
		t.Errorf("Lookback() = %d", got)
	}
	if calc.Key() == NewCalculator(time.Hour, 2).Key() {
		t.Error("different thresholds share a key")
	}
}

func TestIndexMonotonicInLatestWeekPlaytime(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	minute := int64(time.Minute / time.Millisecond)
	maxMinutes := int64(3 * 24 * 60)

	// Each window holds one session placed fully inside it, so only the
	// latest session length changes between the two evaluations. Lengths stay
	// under three days so week one never reaches into week two.
	build := func(week1, week2, week3 int64) []models.Session {
		var sessions []models.Session
		for i, length := range []int64{week1, week2, week3} {
			if length == 0 && i > 0 {
				continue
			}
			end := reference - int64(i)*Week - hour
			sessions = append(sessions, sessionEnding(end, length*minute))
		}
		return sessions
	}

	properties.Property("more week one playtime never lowers the score", prop.ForAll(
		func(week1, extra, week2, week3 int64, logins int) bool {
			before := Index(build(week1, week2, week3), reference, playThreshold, logins)
			after := Index(build(week1+extra, week2, week3), reference, playThreshold, logins)
			return after >= before
		},
		gen.Int64Range(0, maxMinutes),
		gen.Int64Range(0, maxMinutes),
		gen.Int64Range(0, maxMinutes),
		gen.Int64Range(0, maxMinutes),
		gen.IntRange(1, 3),
	))

	properties.Property("score is never negative and buckets agree", prop.ForAll(
		func(week1, week2, week3 int64) bool {
			score := Index(build(week1, week2, week3), reference, playThreshold, 2)
			return score >= 0 && Bucket(score) >= VeryActive && Bucket(score) <= Inactive
		},
		gen.Int64Range(0, maxMinutes),
		gen.Int64Range(0, maxMinutes),
		gen.Int64Range(0, maxMinutes),
	))

	properties.TestingRun(t)
}
