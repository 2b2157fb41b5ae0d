// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package supervisor provides process supervision using suture v4.

The tree has two layers under the root:

	playerstats
	├── data-layer  (database.Pool: transaction workers, backup.Scheduler)
	└── api-layer   (services.HTTPServerService: /metrics and /healthz)

Services are restarted with backoff when they fail; FailureThreshold and
FailureDecay control how quickly repeated failures trigger the backoff.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg.Supervisor.ToTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(pool)
	tree.AddDataService(backup.NewScheduler(db, cfg.Backup))
	tree.AddAPIService(services.NewHTTPServerService("metrics-http", srv, 0))
	return tree.Serve(ctx)
*/
package supervisor
