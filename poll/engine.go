// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/classpoll/history"
	"github.com/danielhkuo/classpoll/ledger"
	"github.com/danielhkuo/classpoll/models"
)

var (
	ErrNoActivePoll     = errors.New("no active poll")
	ErrBlankQuestion    = errors.New("question is required")
	ErrTooFewOptions    = errors.New("poll needs at least 2 options")
	ErrBlankOption      = errors.New("options must not be blank")
	ErrInvalidTimeLimit = errors.New("invalid time limit")
)

// TickInterval is the countdown resolution
const TickInterval = time.Second

// TickOutcome says what a countdown tick did
type TickOutcome int

const (
	TickStale TickOutcome = iota // tick belongs to a poll that is no longer active
	TickCountdown
	TickExpired
)

// Poll is one instance of a timed question. Its ledger is private to it,
// so votes can never leak between instances.
type Poll struct {
	ID            string
	Question      string
	Options       []string
	TimeLimit     int
	TimeRemaining int
	StartedAt     time.Time

	ledger *ledger.Ledger
}

func (p *Poll) view() *models.PollView {
	return &models.PollView{
		ID:            p.ID,
		Question:      p.Question,
		Options:       append([]string(nil), p.Options...),
		TimeLimit:     p.TimeLimit,
		TimeRemaining: p.TimeRemaining,
		Results:       p.ledger.Tally(),
	}
}

// Engine owns the single active poll and its countdown. It is not safe
// for concurrent use; the dispatcher serializes every call, including
// ticks, which arrive through notify.
type Engine struct {
	active       *Poll
	cancel       func()
	scheduler    Scheduler
	notify       func(pollID string)
	history      *history.Store
	maxTimeLimit int
	now          func() time.Time
}

// NewEngine creates an idle engine. notify is invoked from the
// scheduler once per tick with the id of the poll the tick belongs to;
// it should hand the id back to Tick on the owning goroutine.
func NewEngine(scheduler Scheduler, notify func(pollID string), store *history.Store, maxTimeLimit int) *Engine {
	if maxTimeLimit < 1 {
		maxTimeLimit = models.DefaultMaxTimeLimit
	}
	return &Engine{
		scheduler:    scheduler,
		notify:       notify,
		history:      store,
		maxTimeLimit: maxTimeLimit,
		now:          time.Now,
	}
}

// SetClock replaces the time source
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Validate checks a poll definition and returns the normalized
// question and options
func (e *Engine) Validate(question string, options []string, timeLimit int) (string, []string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, ErrBlankQuestion
	}
	if len(options) < 2 {
		return "", nil, ErrTooFewOptions
	}
	cleaned := make([]string, len(options))
	for i, opt := range options {
		cleaned[i] = strings.TrimSpace(opt)
		if cleaned[i] == "" {
			return "", nil, fmt.Errorf("%w: option %d", ErrBlankOption, i)
		}
	}
	if timeLimit < 1 || timeLimit > e.maxTimeLimit {
		return "", nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidTimeLimit, timeLimit, e.maxTimeLimit)
	}
	return question, cleaned, nil
}

// Create starts a new poll. Any poll still active is discarded without
// being archived and its countdown is cancelled.
func (e *Engine) Create(question string, options []string, timeLimit int) (*Poll, error) {
	question, options, err := e.Validate(question, options, timeLimit)
	if err != nil {
		return nil, err
	}

	e.stopCountdown()

	p := &Poll{
		ID:            uuid.NewString(),
		Question:      question,
		Options:       options,
		TimeLimit:     timeLimit,
		TimeRemaining: timeLimit,
		StartedAt:     e.now(),
		ledger:        ledger.New(options),
	}
	e.active = p

	id := p.ID
	e.cancel = e.scheduler.Every(TickInterval, func() { e.notify(id) })

	return p, nil
}

// Tick advances the countdown of the poll identified by pollID.
// Ticks for anything but the current active poll are ignored.
func (e *Engine) Tick(pollID string) (TickOutcome, int) {
	if e.active == nil || e.active.ID != pollID {
		return TickStale, 0
	}
	if e.active.TimeRemaining > 0 {
		e.active.TimeRemaining--
		return TickCountdown, e.active.TimeRemaining
	}
	return TickExpired, 0
}

// Vote records a vote against the active poll
func (e *Engine) Vote(sessionID string, optionIndex int) error {
	if e.active == nil {
		return ErrNoActivePoll
	}
	return e.active.ledger.Record(sessionID, optionIndex)
}

// HasVoted reports whether sessionID voted in the active poll
func (e *Engine) HasVoted(sessionID string) bool {
	return e.active != nil && e.active.ledger.HasVoted(sessionID)
}

// VoterCount returns the number of distinct voters in the active poll
func (e *Engine) VoterCount() int {
	if e.active == nil {
		return 0
	}
	return e.active.ledger.VoterCount()
}

// Close ends the active poll and archives its final results.
// It returns false when there was nothing to close.
func (e *Engine) Close() (models.HistoryEntry, bool) {
	if e.active == nil {
		return models.HistoryEntry{}, false
	}
	e.stopCountdown()

	entry := models.HistoryEntry{
		Question: e.active.Question,
		Results:  e.active.ledger.Tally(),
		EndedAt:  e.now(),
	}
	e.history.Append(entry)
	e.active = nil

	return entry, true
}

// Active returns a snapshot of the active poll, or nil when idle
func (e *Engine) Active() *models.PollView {
	if e.active == nil {
		return nil
	}
	return e.active.view()
}

func (e *Engine) IsActive() bool { return e.active != nil }

// Stop cancels any running countdown without closing the poll
func (e *Engine) Stop() {
	e.stopCountdown()
}

func (e *Engine) stopCountdown() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
