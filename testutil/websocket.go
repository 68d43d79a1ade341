// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/classpoll/models"
)

// TestOrigin is the origin test clients present and test configs allow
const TestOrigin = "http://localhost:5173"

// DialWS opens a WebSocket to an httptest server URL plus path
func DialWS(t *testing.T, serverURL, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(serverURL, "http") + path
	header := http.Header{}
	header.Set("Origin", TestOrigin)

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("Failed to dial %s (status %d): %v", url, status, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// WriteEvent sends an envelope with data encoded as JSON
func WriteEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()

	frame := map[string]any{"event": event}
	if data != nil {
		frame["data"] = data
	}
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("Failed to write %s: %v", event, err)
	}
}

// ReadEnvelope reads the next frame, failing the test after timeout
func ReadEnvelope(t *testing.T, conn *websocket.Conn, timeout time.Duration) models.Envelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(timeout))
	var env models.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}
	return env
}

// ExpectEvent reads frames until one named event arrives and decodes its
// data into v (if v is non-nil). Other events are skipped.
func ExpectEvent(t *testing.T, conn *websocket.Conn, event string, v any) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		env := ReadEnvelope(t, conn, time.Until(deadline))
		if env.Event != event {
			continue
		}
		if v != nil {
			if err := json.Unmarshal(env.Data, v); err != nil {
				t.Fatalf("Failed to decode %s payload: %v", event, err)
			}
		}
		return
	}
	t.Fatalf("Timed out waiting for %s", event)
}
