// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/classpoll/dispatch"
	"github.com/danielhkuo/classpoll/hub"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/testutil"
)

type testServer struct {
	server    *httptest.Server
	mux       *http.ServeMux
	scheduler *testutil.ManualScheduler
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfg := testutil.GetTestConfig()
	scheduler := testutil.NewManualScheduler()

	h := hub.New(ctx)
	d := dispatch.New(h, dispatch.Options{
		HistoryLimit:  cfg.HistoryLimit,
		ChatLimit:     cfg.ChatLimit,
		MaxChatLength: cfg.MaxChatLength,
		MaxTimeLimit:  cfg.MaxTimeLimit,
		Scheduler:     scheduler,
	})
	h.SetSink(d)

	stopped := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(stopped)
	}()

	mux := NewRouter(h, d, cfg)
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		cancel()
		h.CloseAll()
		server.Close()
		<-stopped
	})

	return &testServer{server: server, mux: mux, scheduler: scheduler}
}

// connect dials /ws, joins with name and role and returns the session id
func (ts *testServer) connect(t *testing.T, name string, role models.Role) (*websocket.Conn, string) {
	t.Helper()

	conn := testutil.DialWS(t, ts.server.URL, "/ws")
	var welcome models.WelcomePayload
	testutil.ExpectEvent(t, conn, models.EventWelcome, &welcome)

	testutil.WriteEvent(t, conn, models.EventJoin, models.JoinRequest{Name: name, Role: role})
	return conn, welcome.SocketID
}

// waitForUsers reads update-users frames until the roster has n entries
func waitForUsers(t *testing.T, conn *websocket.Conn, n int) []models.Participant {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var users []models.Participant
		testutil.ExpectEvent(t, conn, models.EventUpdateUsers, &users)
		if len(users) == n {
			return users
		}
	}
	t.Fatalf("Timed out waiting for %d users", n)
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	ts.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	ts.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "classpoll API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	ts := setupTestServer(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"health", "GET", "/health", http.StatusOK},
		{"status", "GET", "/status", http.StatusOK},
		{"plain GET to socket endpoint", "GET", "/ws", http.StatusBadRequest},
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"POST to status endpoint", "POST", "/status", http.StatusMethodNotAllowed},
		{"DELETE to socket endpoint", "DELETE", "/ws", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			ts.mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestStatusEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	teacher, _ := ts.connect(t, "Ms. Rivera", models.RoleTeacher)
	waitForUsers(t, teacher, 1)

	resp, err := http.Get(ts.server.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var status models.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if status.Teachers != 1 || status.Students != 0 {
		t.Errorf("Expected 1 teacher and 0 students, got %+v", status)
	}
	if status.Connections != 1 {
		t.Errorf("Expected 1 connection, got %d", status.Connections)
	}
	if status.ActivePoll != nil {
		t.Errorf("Expected no active poll, got %+v", status.ActivePoll)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	ts := setupTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.server.URL, "http") + "/ws"
	header := http.Header{}
	header.Set("Origin", "https://elsewhere.example")

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("Expected dial from a foreign origin to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %+v", resp)
	}
}

func TestClassroomQuorumClose(t *testing.T) {
	ts := setupTestServer(t)

	teacher, _ := ts.connect(t, "Ms. Rivera", models.RoleTeacher)
	var history []models.HistoryEntry
	testutil.ExpectEvent(t, teacher, models.EventHistoryUpdate, &history)
	if len(history) != 0 {
		t.Fatalf("Expected empty history, got %+v", history)
	}

	ana, _ := ts.connect(t, "Ana", models.RoleStudent)
	waitForUsers(t, ana, 2)
	ben, _ := ts.connect(t, "Ben", models.RoleStudent)
	users := waitForUsers(t, teacher, 3)
	if users[0].Role != models.RoleTeacher || users[1].Name != "Ana" || users[2].Name != "Ben" {
		t.Errorf("Unexpected roster order: %+v", users)
	}

	testutil.WriteEvent(t, teacher, models.EventCreatePoll, models.CreatePollRequest{
		Question: "2 + 2?",
		Options:  []string{"3", "4"},
		Timer:    30,
	})
	for _, conn := range []*websocket.Conn{teacher, ana, ben} {
		var np models.NewPollPayload
		testutil.ExpectEvent(t, conn, models.EventNewPoll, &np)
		if np.Question != "2 + 2?" || np.TimeLimit != 30 || len(np.Options) != 2 {
			t.Errorf("Unexpected new poll payload: %+v", np)
		}
	}

	testutil.WriteEvent(t, ana, models.EventSubmitVote, 1)
	var partial []models.Result
	testutil.ExpectEvent(t, teacher, models.EventUpdateResults, &partial)
	if partial[1].Votes != 1 {
		t.Errorf("Expected 1 vote for option 1, got %+v", partial)
	}

	// A repeat vote is ignored and does not count toward quorum
	testutil.WriteEvent(t, ana, models.EventSubmitVote, 0)
	testutil.WriteEvent(t, ben, models.EventSubmitVote, 1)

	var final []models.Result
	testutil.ExpectEvent(t, teacher, models.EventPollEnded, &final)
	want := []models.Result{{Text: "3", Votes: 0}, {Text: "4", Votes: 2}}
	for i := range want {
		if final[i] != want[i] {
			t.Errorf("Result %d: expected %+v, got %+v", i, want[i], final[i])
		}
	}

	testutil.ExpectEvent(t, ben, models.EventHistoryUpdate, &history)
	if len(history) != 1 || history[0].Question != "2 + 2?" {
		t.Errorf("Expected one archived poll, got %+v", history)
	}
}

func TestClassroomTimedClose(t *testing.T) {
	ts := setupTestServer(t)

	teacher, _ := ts.connect(t, "Ms. Rivera", models.RoleTeacher)
	ana, _ := ts.connect(t, "Ana", models.RoleStudent)
	ts.connect(t, "Ben", models.RoleStudent)
	waitForUsers(t, teacher, 3)

	testutil.WriteEvent(t, teacher, models.EventCreatePoll, models.CreatePollRequest{
		Question: "Ready?",
		Options:  []string{"Yes", "No"},
		Timer:    2,
	})
	testutil.ExpectEvent(t, ana, models.EventNewPoll, nil)

	testutil.WriteEvent(t, ana, models.EventSubmitVote, 0)
	testutil.ExpectEvent(t, ana, models.EventUpdateResults, nil)

	for _, want := range []int{1, 0} {
		ts.scheduler.Fire()
		var remaining int
		testutil.ExpectEvent(t, ana, models.EventTimerUpdate, &remaining)
		if remaining != want {
			t.Errorf("Expected %d seconds remaining, got %d", want, remaining)
		}
	}

	ts.scheduler.Fire()
	var final []models.Result
	testutil.ExpectEvent(t, ana, models.EventPollEnded, &final)
	if final[0].Votes != 1 || final[1].Votes != 0 {
		t.Errorf("Unexpected final results: %+v", final)
	}
}

func TestLateJoinerCatchesUp(t *testing.T) {
	ts := setupTestServer(t)

	teacher, _ := ts.connect(t, "Ms. Rivera", models.RoleTeacher)
	ana, _ := ts.connect(t, "Ana", models.RoleStudent)
	waitForUsers(t, teacher, 2)

	testutil.WriteEvent(t, teacher, models.EventCreatePoll, models.CreatePollRequest{
		Question: "Favourite colour?",
		Options:  []string{"Red", "Blue", "Green"},
		Timer:    60,
	})
	testutil.ExpectEvent(t, ana, models.EventNewPoll, nil)

	late, _ := ts.connect(t, "Cam", models.RoleStudent)

	var np models.NewPollPayload
	testutil.ExpectEvent(t, late, models.EventNewPoll, &np)
	if np.Question != "Favourite colour?" {
		t.Errorf("Expected the active poll, got %+v", np)
	}

	var remaining int
	testutil.ExpectEvent(t, late, models.EventTimerUpdate, &remaining)
	if remaining != 60 {
		t.Errorf("Expected 60 seconds remaining, got %d", remaining)
	}

	var results []models.Result
	testutil.ExpectEvent(t, late, models.EventUpdateResults, &results)
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %+v", results)
	}
}

func TestRemovedStudentIsNotified(t *testing.T) {
	ts := setupTestServer(t)

	teacher, _ := ts.connect(t, "Ms. Rivera", models.RoleTeacher)
	ana, anaID := ts.connect(t, "Ana", models.RoleStudent)
	waitForUsers(t, teacher, 2)

	testutil.WriteEvent(t, teacher, models.EventRemoveStudent, anaID)
	testutil.ExpectEvent(t, ana, models.EventRemoved, nil)

	users := waitForUsers(t, teacher, 1)
	if users[0].Role != models.RoleTeacher {
		t.Errorf("Expected only the teacher to remain, got %+v", users)
	}
}

func TestChatBroadcastAndHistory(t *testing.T) {
	ts := setupTestServer(t)

	teacher, _ := ts.connect(t, "Ms. Rivera", models.RoleTeacher)
	ana, _ := ts.connect(t, "Ana", models.RoleStudent)
	waitForUsers(t, teacher, 2)

	testutil.WriteEvent(t, ana, models.EventChatSend, models.ChatSendRequest{Message: "  hello  "})

	var msg models.ChatMessage
	testutil.ExpectEvent(t, teacher, models.EventChatMessage, &msg)
	if msg.Message != "hello" || msg.SenderName != "Ana" || msg.SenderRole != models.RoleStudent {
		t.Errorf("Unexpected chat message: %+v", msg)
	}

	testutil.WriteEvent(t, teacher, models.EventChatHistoryReq, nil)
	var log []models.ChatMessage
	testutil.ExpectEvent(t, teacher, models.EventChatHistory, &log)
	if len(log) != 1 || log[0].ID != msg.ID {
		t.Errorf("Expected the one message in history, got %+v", log)
	}
}
