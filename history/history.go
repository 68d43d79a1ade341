// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package history keeps the most recent concluded polls, newest first.
package history

import (
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/ringbuf"
)

type Store struct {
	entries *ringbuf.Buffer[models.HistoryEntry]
}

// New returns a store that keeps at most limit entries
func New(limit int) *Store {
	if limit < 1 {
		limit = models.DefaultHistoryLimit
	}
	return &Store{entries: ringbuf.New[models.HistoryEntry](limit)}
}

// Append archives an entry. The results are copied so later changes
// to the caller's slice cannot reach the archive.
func (s *Store) Append(entry models.HistoryEntry) {
	entry.Results = models.CopyResults(entry.Results)
	s.entries.Push(entry)
}

// List returns the archived entries most-recent first
func (s *Store) List() []models.HistoryEntry {
	entries := s.entries.Newest()
	for i := range entries {
		entries[i].Results = models.CopyResults(entries[i].Results)
	}
	return entries
}

func (s *Store) Len() int { return s.entries.Len() }

// Latest returns the most recently archived entry
func (s *Store) Latest() (models.HistoryEntry, bool) {
	return s.entries.Last()
}
