// Tracklore - Music Listening Analytics and Recommendations
// Copyright 2026 Tracklore Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tracklore/tracklore

/*
Package supervisor provides the supervision tree for long-running
Tracklore services, built on suture/v4.

The tree has two layers under the root:

  - jobs: background workers (the daily stats refresher)
  - api: the HTTP server

The layers isolate failures. A crashing background job is restarted
with backoff without ever taking down the HTTP server, and vice versa.

Supervisor events (service failures, restarts, backoff transitions) are
logged through sutureslog, which bridges suture's event hook to the
application's structured logger.

Usage:

	tree, err := supervisor.NewTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	tree.AddJobService(services.NewStatsRefreshService(db, cfg.Stats))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
