// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	if id := CorrelationIDFromContext(ctx); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}

	ctx = ContextWithNewCorrelationID(ctx)
	id := CorrelationIDFromContext(ctx)
	if len(id) != 8 {
		t.Errorf("expected 8 character id, got %q", id)
	}

	ctx = ContextWithCorrelationID(ctx, "fixed")
	if got := CorrelationIDFromContext(ctx); got != "fixed" {
		t.Errorf("expected 'fixed', got %q", got)
	}
}

func TestEnsureCorrelationID(t *testing.T) {
	ctx := EnsureCorrelationID(context.Background())
	id := CorrelationIDFromContext(ctx)
	if len(id) != 8 {
		t.Fatalf("expected a generated 8 character id, got %q", id)
	}
	if got := CorrelationIDFromContext(EnsureCorrelationID(ctx)); got != id {
		t.Errorf("existing id replaced: %q -> %q", id, got)
	}
}

func TestCtxUsesContextLogger(t *testing.T) {
	SetLevelString("info")
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithCorrelationID(ctx, "abc12345")

	Ctx(ctx).Info().Str("stage", "sessions").Msg("copying")

	output := buf.String()
	for _, want := range []string{`"correlation_id":"abc12345"`, `"stage":"sessions"`, "copying"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}
