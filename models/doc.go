// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines wire events and domain types shared across the
server.

# Envelope

Every WebSocket frame, in both directions, is a JSON envelope:

	{"event": "student:submit-vote", "data": 1}

DecodeInbound turns a client frame into one of the Inbound request types
and rejects unknown events and malformed payloads. Role and poll state
checks are left to the dispatcher.

# Inbound Events

  - user:join: JoinRequest {name, role}
  - teacher:create-poll: CreatePollRequest {question, options, timer}
  - student:submit-vote: bare option index
  - teacher:remove-student: bare session id
  - chat:send-message: ChatSendRequest {message, recipientId?}
  - chat:request-history: no data

# Outbound Events

	server:welcome          {socketId}
	server:update-users     []Participant
	server:new-poll         {question, options, timeLimit}
	server:timer-update     seconds remaining
	server:update-results   []Result
	server:poll-ended       []Result
	server:history-update   []HistoryEntry, newest first
	server:you-were-removed no data
	server:chat-message     ChatMessage
	server:chat-history     []ChatMessage, oldest first

# Domain Types

  - Participant: a joined session (socketId, name, role)
  - Result: option text and vote count
  - HistoryEntry: a concluded poll
  - ChatMessage: one chat line, broadcast or direct
  - PollView, StatusResponse: snapshots for catch-up and GET /status
*/
package models
