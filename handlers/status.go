// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/models"
)

const statusTimeout = 2 * time.Second

// StatusSource computes a snapshot of coordinator state
type StatusSource interface {
	Status(ctx context.Context) (models.StatusResponse, error)
}

// ConnectionCounter reports open transport connections
type ConnectionCounter interface {
	Count() int
}

type StatusHandler struct {
	source      StatusSource
	connections ConnectionCounter
}

func NewStatusHandler(source StatusSource, connections ConnectionCounter) *StatusHandler {
	return &StatusHandler{source: source, connections: connections}
}

// GetStatus handles GET /status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
	defer cancel()

	status, err := h.source.Status(ctx)
	if err != nil {
		slog.Error("failed to compute status", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Coordinator unavailable")
		return
	}
	status.Connections = h.connections.Count()

	middleware.JSONResponse(w, http.StatusOK, status)
}
