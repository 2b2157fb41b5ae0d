// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

// Package testinfra provides test infrastructure: temporary embedded
// databases, a sample dataset, and (behind the integration build tag) a
// Postgres container managed by testcontainers-go.
//
// # Embedded Databases
//
//	db := testinfra.OpenSQLite(t, "live")
//	testinfra.Execute(t, db, testinfra.Sample(now).Transaction())
//
// # Postgres Container
//
//	//go:build integration
//
//	func TestPostgres(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    db := database.NewPostgres("it", pg.DSN, time.Second)
//	}
//
// Run integration tests with:
//
//	go test -tags=integration ./...
package testinfra
