// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledger records who voted in one poll and the per-option tally.
package ledger

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/classpoll/models"
)

var (
	ErrAlreadyVoted     = errors.New("session already voted")
	ErrOptionOutOfRange = errors.New("option index out of range")
)

// Ledger belongs to a single poll instance. The sum of all vote counts
// always equals the number of voters.
type Ledger struct {
	results []models.Result
	voters  map[string]int // session id -> option index
}

// New creates a ledger with one zeroed result per option, in order
func New(options []string) *Ledger {
	results := make([]models.Result, len(options))
	for i, text := range options {
		results[i] = models.Result{Text: text}
	}
	return &Ledger{
		results: results,
		voters:  make(map[string]int),
	}
}

func (l *Ledger) HasVoted(sessionID string) bool {
	_, ok := l.voters[sessionID]
	return ok
}

// Record applies one vote. The index is checked before the voter set
// so a rejected vote never marks the session as having voted.
func (l *Ledger) Record(sessionID string, optionIndex int) error {
	if optionIndex < 0 || optionIndex >= len(l.results) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOptionOutOfRange, optionIndex, len(l.results))
	}
	if l.HasVoted(sessionID) {
		return ErrAlreadyVoted
	}
	l.voters[sessionID] = optionIndex
	l.results[optionIndex].Votes++
	return nil
}

// Tally returns a copy of the current results
func (l *Ledger) Tally() []models.Result {
	return models.CopyResults(l.results)
}

func (l *Ledger) VoterCount() int {
	return len(l.voters)
}
