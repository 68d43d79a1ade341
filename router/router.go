// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/handlers"
	"github.com/danielhkuo/classpoll/hub"
	"github.com/danielhkuo/classpoll/middleware"
)

func NewRouter(h *hub.Hub, status handlers.StatusSource, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	socketHandler := handlers.NewSocketHandler(h, cfg)
	statusHandler := handlers.NewStatusHandler(status, h)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Realtime event channel
	mux.HandleFunc("GET /ws", middleware.WithLogging(socketHandler.Connect))

	// Operator view of coordinator state
	mux.HandleFunc("GET /status", middleware.WithLogging(statusHandler.GetStatus))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("classpoll API v1"))
	})

	return mux
}
