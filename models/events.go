// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Inbound event names
const (
	EventJoin           = "user:join"
	EventCreatePoll     = "teacher:create-poll"
	EventSubmitVote     = "student:submit-vote"
	EventRemoveStudent  = "teacher:remove-student"
	EventChatSend       = "chat:send-message"
	EventChatHistoryReq = "chat:request-history"
)

// Outbound event names
const (
	EventWelcome       = "server:welcome"
	EventUpdateUsers   = "server:update-users"
	EventNewPoll       = "server:new-poll"
	EventTimerUpdate   = "server:timer-update"
	EventUpdateResults = "server:update-results"
	EventPollEnded     = "server:poll-ended"
	EventHistoryUpdate = "server:history-update"
	EventRemoved       = "server:you-were-removed"
	EventChatMessage   = "server:chat-message"
	EventChatHistory   = "server:chat-history"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Envelope is the JSON frame carried over the WebSocket in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Outbound is an event ready to be encoded and delivered
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound request types

// Inbound is implemented by every decoded client event
type Inbound interface {
	EventName() string
}

type JoinRequest struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Timer    int      `json:"timer"`
}

// SubmitVoteRequest is sent as a bare integer
type SubmitVoteRequest struct {
	OptionIndex int
}

// RemoveStudentRequest is sent as a bare session id string
type RemoveStudentRequest struct {
	TargetID string
}

type ChatSendRequest struct {
	Message     string `json:"message"`
	RecipientID string `json:"recipientId,omitempty"`
}

type ChatHistoryRequest struct{}

func (JoinRequest) EventName() string          { return EventJoin }
func (CreatePollRequest) EventName() string    { return EventCreatePoll }
func (SubmitVoteRequest) EventName() string    { return EventSubmitVote }
func (RemoveStudentRequest) EventName() string { return EventRemoveStudent }
func (ChatSendRequest) EventName() string      { return EventChatSend }
func (ChatHistoryRequest) EventName() string   { return EventChatHistoryReq }

// Outbound payload types

type WelcomePayload struct {
	SocketID string `json:"socketId"`
}

type NewPollPayload struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
}

// DecodeInbound parses a raw frame and validates the payload shape for
// its event. Semantic checks (roles, poll state) happen in the dispatcher.
func DecodeInbound(frame []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch env.Event {
	case EventJoin:
		var req JoinRequest
		if err := decodeStrict(env.Data, &req); err != nil {
			return nil, err
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidPayload)
		}
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidPayload, req.Role)
		}
		return req, nil

	case EventCreatePoll:
		var req CreatePollRequest
		if err := decodeStrict(env.Data, &req); err != nil {
			return nil, err
		}
		return req, nil

	case EventSubmitVote:
		var idx int
		if err := decodeStrict(env.Data, &idx); err != nil {
			return nil, err
		}
		return SubmitVoteRequest{OptionIndex: idx}, nil

	case EventRemoveStudent:
		var target string
		if err := decodeStrict(env.Data, &target); err != nil {
			return nil, err
		}
		if target == "" {
			return nil, fmt.Errorf("%w: target is required", ErrInvalidPayload)
		}
		return RemoveStudentRequest{TargetID: target}, nil

	case EventChatSend:
		var req ChatSendRequest
		if err := decodeStrict(env.Data, &req); err != nil {
			return nil, err
		}
		return req, nil

	case EventChatHistoryReq:
		return ChatHistoryRequest{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
}

func decodeStrict(data json.RawMessage, v any) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: missing data", ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
