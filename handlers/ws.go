// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/hub"
	"github.com/danielhkuo/classpoll/middleware"
)

type SocketHandler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewSocketHandler(h *hub.Hub, cfg cliparse.Config) *SocketHandler {
	return &SocketHandler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin
				if origin == "" {
					return true
				}
				return cfg.AllowsOrigin(origin)
			},
		},
	}
}

// Connect handles GET /ws
func (h *SocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "WebSocket upgrade required")
		return
	}

	// Upgrade writes its own error response
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
		return
	}

	h.hub.Serve(conn)
}
