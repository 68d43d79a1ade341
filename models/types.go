// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Role constants
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// Default limits
const (
	DefaultHistoryLimit  = 50
	DefaultChatLimit     = 100
	DefaultMaxChatLength = 1000
	DefaultMaxTimeLimit  = 3600
)

// Domain types

// Participant is one joined session. SessionID is the transport
// connection id and does not survive a reconnect.
type Participant struct {
	SessionID string `json:"socketId"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
}

// Result is the vote count for one option. Results are always
// positionally aligned with the poll's options.
type Result struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type HistoryEntry struct {
	Question string    `json:"question"`
	Results  []Result  `json:"results"`
	EndedAt  time.Time `json:"endedAt"`
}

type ChatMessage struct {
	ID          int64     `json:"id"`
	SenderID    string    `json:"senderId"`
	SenderName  string    `json:"senderName"`
	SenderRole  Role      `json:"senderRole"`
	RecipientID string    `json:"recipientId,omitempty"` // empty means broadcast
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// PollView is what a session needs to render the active poll
type PollView struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	TimeLimit     int      `json:"timeLimit"`
	TimeRemaining int      `json:"timeRemaining"`
	Results       []Result `json:"results"`
}

// CopyResults returns an independent copy of rs
func CopyResults(rs []Result) []Result {
	out := make([]Result, len(rs))
	copy(out, rs)
	return out
}

// Status types

type StatusResponse struct {
	Teachers      int       `json:"teachers"`
	Students      int       `json:"students"`
	Connections   int       `json:"connections"`
	ActivePoll    *PollView `json:"active_poll"`
	HistoryCount  int       `json:"history_count"`
	LastPollEnded string    `json:"last_poll_ended,omitempty"`
	ChatCount     int       `json:"chat_count"`
	StartedAt     time.Time `json:"started_at"`
	Uptime        string    `json:"uptime"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
