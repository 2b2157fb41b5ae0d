// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

type stubServer struct {
	listenErr error
	stop      chan struct{}
	shutdowns int
}

func (s *stubServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdowns++
	close(s.stop)
	return nil
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	srv := &stubServer{stop: make(chan struct{})}
	svc := NewHTTPServerService("metrics-http", srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if srv.shutdowns != 1 {
		t.Errorf("Shutdown called %d times, want 1", srv.shutdowns)
	}
}

func TestHTTPServerServiceListenError(t *testing.T) {
	srv := &stubServer{listenErr: errors.New("address in use"), stop: make(chan struct{})}
	svc := NewHTTPServerService("metrics-http", srv, 0)

	err := svc.Serve(context.Background())
	if err == nil || err.Error() != "metrics-http failed: address in use" {
		t.Errorf("Serve() = %v, want wrapped listen error", err)
	}
	if svc.String() != "metrics-http" {
		t.Errorf("String() = %q", svc.String())
	}
}
