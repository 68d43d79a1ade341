// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dispatch

import (
	"log/slog"

	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/poll"
)

// HandleJoin registers the session and catches it up on the active
// poll. Teachers also receive the poll history.
func (d *Dispatcher) HandleJoin(sessionID string, req models.JoinRequest) {
	p := d.registry.Join(sessionID, req.Name, req.Role)
	slog.Info("participant joined", "session", sessionID, "name", p.Name, "role", p.Role)
	d.broadcastUsers()

	if view := d.engine.Active(); view != nil {
		d.outbox.Send(sessionID, models.Outbound{Event: models.EventNewPoll, Data: models.NewPollPayload{
			Question:  view.Question,
			Options:   view.Options,
			TimeLimit: view.TimeLimit,
		}})
		d.outbox.Send(sessionID, models.Outbound{Event: models.EventTimerUpdate, Data: view.TimeRemaining})
		d.outbox.Send(sessionID, models.Outbound{Event: models.EventUpdateResults, Data: view.Results})
	}

	if p.Role == models.RoleTeacher {
		d.outbox.Send(sessionID, models.Outbound{Event: models.EventHistoryUpdate, Data: d.history.List()})
	}
}

// HandleCreatePoll replaces any active poll with a new one
func (d *Dispatcher) HandleCreatePoll(sessionID string, req models.CreatePollRequest) {
	if !d.hasRole(sessionID, models.RoleTeacher) {
		drop(sessionID, models.EventCreatePoll, "not a teacher")
		return
	}

	replaced := d.engine.IsActive()
	p, err := d.engine.Create(req.Question, req.Options, req.Timer)
	if err != nil {
		drop(sessionID, models.EventCreatePoll, err.Error())
		return
	}

	slog.Info("poll created",
		"poll_id", p.ID,
		"question", p.Question,
		"options", len(p.Options),
		"time_limit", p.TimeLimit,
		"replaced_active", replaced,
	)

	d.outbox.Broadcast(models.Outbound{Event: models.EventNewPoll, Data: models.NewPollPayload{
		Question:  p.Question,
		Options:   append([]string(nil), p.Options...),
		TimeLimit: p.TimeLimit,
	}})
}

// HandleSubmitVote records a student's vote and closes the poll once
// every registered student has voted
func (d *Dispatcher) HandleSubmitVote(sessionID string, req models.SubmitVoteRequest) {
	if !d.hasRole(sessionID, models.RoleStudent) {
		drop(sessionID, models.EventSubmitVote, "not a student")
		return
	}
	if err := d.engine.Vote(sessionID, req.OptionIndex); err != nil {
		drop(sessionID, models.EventSubmitVote, err.Error())
		return
	}

	view := d.engine.Active()
	d.outbox.Broadcast(models.Outbound{Event: models.EventUpdateResults, Data: view.Results})

	voters := d.engine.VoterCount()
	students := d.registry.Count(models.RoleStudent)
	slog.Debug("vote recorded", "poll_id", view.ID, "session", sessionID, "voters", voters, "students", students)

	if voters >= students {
		d.closePoll("all students voted")
	}
}

// HandleTick advances the countdown of pollID. Ticks for a poll that
// is no longer active do nothing.
func (d *Dispatcher) HandleTick(pollID string) {
	outcome, remaining := d.engine.Tick(pollID)
	switch outcome {
	case poll.TickCountdown:
		d.outbox.Broadcast(models.Outbound{Event: models.EventTimerUpdate, Data: remaining})
	case poll.TickExpired:
		d.closePoll("time expired")
	}
}

// HandleRemoveStudent lets a teacher kick a student
func (d *Dispatcher) HandleRemoveStudent(sessionID string, req models.RemoveStudentRequest) {
	removed, err := d.registry.Remove(sessionID, req.TargetID)
	if err != nil {
		drop(sessionID, models.EventRemoveStudent, err.Error())
		return
	}

	slog.Info("student removed", "by", sessionID, "session", removed.SessionID, "name", removed.Name)
	d.broadcastUsers()
	d.outbox.Send(removed.SessionID, models.Outbound{Event: models.EventRemoved})
}

// HandleChatSend stores a chat message and delivers it. Direct messages
// go to the recipient and back to the sender; others go to everyone.
func (d *Dispatcher) HandleChatSend(sessionID string, req models.ChatSendRequest) {
	sender, ok := d.registry.Get(sessionID)
	if !ok {
		drop(sessionID, models.EventChatSend, "sender not registered")
		return
	}
	body, err := d.chat.Normalize(req.Message)
	if err != nil {
		drop(sessionID, models.EventChatSend, err.Error())
		return
	}

	msg := d.chat.Append(models.ChatMessage{
		SenderID:    sender.SessionID,
		SenderName:  sender.Name,
		SenderRole:  sender.Role,
		RecipientID: req.RecipientID,
		Message:     body,
	})
	out := models.Outbound{Event: models.EventChatMessage, Data: msg}

	if msg.RecipientID == "" {
		d.outbox.Broadcast(out)
		return
	}
	d.outbox.Send(msg.RecipientID, out)
	if msg.RecipientID != sessionID {
		d.outbox.Send(sessionID, out)
	}
}

// HandleChatHistory sends the retained chat log to the requester
func (d *Dispatcher) HandleChatHistory(sessionID string) {
	if _, ok := d.registry.Get(sessionID); !ok {
		drop(sessionID, models.EventChatHistoryReq, "sender not registered")
		return
	}
	d.outbox.Send(sessionID, models.Outbound{Event: models.EventChatHistory, Data: d.chat.History()})
}

// HandleDisconnect deregisters the session. An active poll keeps running.
func (d *Dispatcher) HandleDisconnect(sessionID string) {
	if !d.registry.Leave(sessionID) {
		return
	}
	slog.Info("participant left", "session", sessionID)
	d.broadcastUsers()
}

func (d *Dispatcher) closePoll(reason string) {
	entry, ok := d.engine.Close()
	if !ok {
		return
	}

	slog.Info("poll closed", "question", entry.Question, "reason", reason, "results", entry.Results)
	d.outbox.Broadcast(models.Outbound{Event: models.EventPollEnded, Data: entry.Results})
	d.outbox.Broadcast(models.Outbound{Event: models.EventHistoryUpdate, Data: d.history.List()})
}

func (d *Dispatcher) broadcastUsers() {
	d.outbox.Broadcast(models.Outbound{Event: models.EventUpdateUsers, Data: d.registry.Snapshot()})
}

func (d *Dispatcher) hasRole(sessionID string, role models.Role) bool {
	p, ok := d.registry.Get(sessionID)
	return ok && p.Role == role
}
