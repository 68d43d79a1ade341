// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers contains the HTTP handlers: the WebSocket upgrade that
// hands connections to the hub, and the read-only status endpoint.
package handlers
