// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"testing"
)

func sumVotes(l *Ledger) int {
	total := 0
	for _, r := range l.Tally() {
		total += r.Votes
	}
	return total
}

func TestNewAlignsResultsWithOptions(t *testing.T) {
	options := []string{"Red", "Green", "Blue"}
	l := New(options)

	tally := l.Tally()
	if len(tally) != len(options) {
		t.Fatalf("expected %d results, got %d", len(options), len(tally))
	}
	for i, r := range tally {
		if r.Text != options[i] || r.Votes != 0 {
			t.Errorf("result %d: expected {%s 0}, got %+v", i, options[i], r)
		}
	}
}

func TestRecordOncePerSession(t *testing.T) {
	l := New([]string{"A", "B"})

	if err := l.Record("s1", 0); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := l.Record("s1", 1); !errors.Is(err, ErrAlreadyVoted) {
			t.Errorf("repeat vote: expected ErrAlreadyVoted, got %v", err)
		}
	}

	tally := l.Tally()
	if tally[0].Votes != 1 || tally[1].Votes != 0 {
		t.Errorf("only the first vote should count, got %+v", tally)
	}
	if l.VoterCount() != 1 || sumVotes(l) != 1 {
		t.Errorf("expected 1 voter and 1 vote, got %d voters %d votes", l.VoterCount(), sumVotes(l))
	}
}

func TestRecordRejectsOutOfRange(t *testing.T) {
	l := New([]string{"A", "B"})

	for _, idx := range []int{-1, 2, 100} {
		if err := l.Record("s1", idx); !errors.Is(err, ErrOptionOutOfRange) {
			t.Errorf("index %d: expected ErrOptionOutOfRange, got %v", idx, err)
		}
	}
	if l.HasVoted("s1") {
		t.Error("rejected vote must not mark the session as voted")
	}
	if err := l.Record("s1", 1); err != nil {
		t.Errorf("valid vote after rejected ones should succeed: %v", err)
	}
}

func TestTallyIsCopy(t *testing.T) {
	l := New([]string{"A", "B"})
	l.Record("s1", 0)

	tally := l.Tally()
	tally[0].Votes = 42

	if l.Tally()[0].Votes != 1 {
		t.Error("mutating the tally copy changed the ledger")
	}
}

func TestVoteSumMatchesVoters(t *testing.T) {
	l := New([]string{"A", "B", "C"})
	sessions := []string{"s1", "s2", "s3", "s1", "s4", "s2"}
	for i, s := range sessions {
		l.Record(s, i%3)
	}

	if l.VoterCount() != 4 {
		t.Errorf("expected 4 distinct voters, got %d", l.VoterCount())
	}
	if sumVotes(l) != l.VoterCount() {
		t.Errorf("vote sum %d != voter count %d", sumVotes(l), l.VoterCount())
	}
}
