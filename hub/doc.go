// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub manages open WebSocket connections.

Serve registers a connection under a fresh session id, greets it with
server:welcome and forwards decoded frames to a Sink until the peer goes
away. Each connection has a buffered send queue drained by its own
writer goroutine, so Send and Broadcast never block. A connection whose
queue fills up is closed.
*/
package hub
