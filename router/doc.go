// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the classpoll server.

# Route Registration

	mux := router.NewRouter(hub, dispatcher, cfg)

# Endpoints

	GET /health - Liveness
	GET /ws     - WebSocket upgrade; all poll and chat traffic
	GET /status - JSON snapshot of sessions, active poll and retention
	GET /       - Banner
*/
package router
