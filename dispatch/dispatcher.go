// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/classpoll/chat"
	"github.com/danielhkuo/classpoll/history"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/poll"
	"github.com/danielhkuo/classpoll/registry"
)

// ErrStopped is returned by calls made after Run has returned
var ErrStopped = errors.New("dispatcher stopped")

const inboxSize = 256

// Outbox delivers outbound events. Send to an unknown session must be a no-op.
type Outbox interface {
	Send(sessionID string, ev models.Outbound)
	Broadcast(ev models.Outbound)
}

type Options struct {
	HistoryLimit  int
	ChatLimit     int
	MaxChatLength int
	MaxTimeLimit  int
	Scheduler     poll.Scheduler
}

// Dispatcher is the single writer for all session, poll, history and
// chat state. The Handle* methods are not safe for concurrent use; from
// other goroutines go through Submit, Disconnect and Status, which queue
// work for Run.
type Dispatcher struct {
	outbox   Outbox
	registry *registry.Registry
	engine   *poll.Engine
	history  *history.Store
	chat     *chat.Log

	inbox     chan func()
	done      chan struct{}
	startedAt time.Time
	now       func() time.Time
}

func New(outbox Outbox, opts Options) *Dispatcher {
	if opts.Scheduler == nil {
		opts.Scheduler = poll.TickerScheduler{}
	}

	d := &Dispatcher{
		outbox:    outbox,
		registry:  registry.New(),
		history:   history.New(opts.HistoryLimit),
		chat:      chat.New(opts.ChatLimit, opts.MaxChatLength),
		inbox:     make(chan func(), inboxSize),
		done:      make(chan struct{}),
		startedAt: time.Now(),
		now:       time.Now,
	}
	d.engine = poll.NewEngine(opts.Scheduler, d.enqueueTick, d.history, opts.MaxTimeLimit)
	return d
}

// Run processes queued work until ctx is cancelled
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	defer d.engine.Stop()

	slog.Info("dispatcher started")
	for {
		select {
		case fn := <-d.inbox:
			d.exec(fn)
		case <-ctx.Done():
			slog.Info("dispatcher stopped")
			return nil
		}
	}
}

// Submit queues an inbound event from sessionID
func (d *Dispatcher) Submit(ctx context.Context, sessionID string, in models.Inbound) error {
	return d.enqueue(ctx, func() { d.Handle(sessionID, in) })
}

// Disconnect queues the transport-level disconnect of sessionID
func (d *Dispatcher) Disconnect(ctx context.Context, sessionID string) error {
	return d.enqueue(ctx, func() { d.HandleDisconnect(sessionID) })
}

// Status computes a state snapshot on the dispatcher goroutine
func (d *Dispatcher) Status(ctx context.Context) (models.StatusResponse, error) {
	result := make(chan models.StatusResponse, 1)
	if err := d.enqueue(ctx, func() { result <- d.snapshot() }); err != nil {
		return models.StatusResponse{}, err
	}
	select {
	case s := <-result:
		return s, nil
	case <-ctx.Done():
		return models.StatusResponse{}, ctx.Err()
	case <-d.done:
		return models.StatusResponse{}, ErrStopped
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, fn func()) error {
	select {
	case <-d.done:
		return ErrStopped
	default:
	}

	select {
	case d.inbox <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrStopped
	}
}

// enqueueTick is called from the countdown goroutine
func (d *Dispatcher) enqueueTick(pollID string) {
	select {
	case d.inbox <- func() { d.HandleTick(pollID) }:
	case <-d.done:
	}
}

// drain runs queued work without waiting for more
func (d *Dispatcher) drain() {
	for {
		select {
		case fn := <-d.inbox:
			d.exec(fn)
		default:
			return
		}
	}
}

func (d *Dispatcher) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panicked", "panic", r)
		}
	}()
	fn()
}

// Handle routes a decoded inbound event to its handler
func (d *Dispatcher) Handle(sessionID string, in models.Inbound) {
	switch req := in.(type) {
	case models.JoinRequest:
		d.HandleJoin(sessionID, req)
	case models.CreatePollRequest:
		d.HandleCreatePoll(sessionID, req)
	case models.SubmitVoteRequest:
		d.HandleSubmitVote(sessionID, req)
	case models.RemoveStudentRequest:
		d.HandleRemoveStudent(sessionID, req)
	case models.ChatSendRequest:
		d.HandleChatSend(sessionID, req)
	case models.ChatHistoryRequest:
		d.HandleChatHistory(sessionID)
	default:
		drop(sessionID, "unhandled", "unknown event type")
	}
}

func drop(sessionID, event, reason string) {
	slog.Debug("event dropped", "session", sessionID, "event", event, "reason", reason)
}

func (d *Dispatcher) snapshot() models.StatusResponse {
	s := models.StatusResponse{
		Teachers:     d.registry.Count(models.RoleTeacher),
		Students:     d.registry.Count(models.RoleStudent),
		ActivePoll:   d.engine.Active(),
		HistoryCount: d.history.Len(),
		ChatCount:    d.chat.Len(),
		StartedAt:    d.startedAt,
	}
	if latest, ok := d.history.Latest(); ok {
		s.LastPollEnded = humanizeSince(latest.EndedAt, d.now())
	}
	s.Uptime = humanizeUptime(d.startedAt, d.now())
	return s
}
