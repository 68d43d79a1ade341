// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"sync"
	"time"
)

// ManualScheduler records scheduled tasks and only runs them when Fire
// is called, so countdowns are deterministic in tests
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*task
}

type task struct {
	interval  time.Duration
	fn        func()
	cancelled bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task{interval: interval, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() {
		s.mu.Lock()
		t.cancelled = true
		s.mu.Unlock()
	}
}

// Fire runs every live task once
func (s *ManualScheduler) Fire() {
	for _, fn := range s.live() {
		fn()
	}
}

// FireAll runs every task ever scheduled, cancelled or not, to simulate
// a tick that was already in flight when its task was cancelled
func (s *ManualScheduler) FireAll() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.tasks))
	for _, t := range s.tasks {
		fns = append(fns, t.fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Live returns the number of tasks not yet cancelled
func (s *ManualScheduler) Live() int {
	return len(s.live())
}

func (s *ManualScheduler) live() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fns := []func(){}
	for _, t := range s.tasks {
		if !t.cancelled {
			fns = append(fns, t.fn)
		}
	}
	return fns
}
