// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"sync"

	"github.com/danielhkuo/classpoll/models"
)

// Delivery is one recorded outbound event. To is empty for broadcasts.
type Delivery struct {
	To    string
	Event string
	Data  any
}

func (d Delivery) Broadcast() bool { return d.To == "" }

// RecordingOutbox captures everything the dispatcher emits
type RecordingOutbox struct {
	mu         sync.Mutex
	deliveries []Delivery
}

func NewRecordingOutbox() *RecordingOutbox {
	return &RecordingOutbox{}
}

func (o *RecordingOutbox) Send(sessionID string, ev models.Outbound) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliveries = append(o.deliveries, Delivery{To: sessionID, Event: ev.Event, Data: ev.Data})
}

func (o *RecordingOutbox) Broadcast(ev models.Outbound) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliveries = append(o.deliveries, Delivery{Event: ev.Event, Data: ev.Data})
}

// All returns every delivery in emission order
func (o *RecordingOutbox) All() []Delivery {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Delivery(nil), o.deliveries...)
}

// Named returns deliveries of one event name in emission order
func (o *RecordingOutbox) Named(event string) []Delivery {
	out := []Delivery{}
	for _, d := range o.All() {
		if d.Event == event {
			out = append(out, d)
		}
	}
	return out
}

// To returns unicast deliveries addressed to sessionID
func (o *RecordingOutbox) To(sessionID string) []Delivery {
	out := []Delivery{}
	for _, d := range o.All() {
		if d.To == sessionID {
			out = append(out, d)
		}
	}
	return out
}

// Last returns the most recent delivery of event
func (o *RecordingOutbox) Last(event string) (Delivery, bool) {
	named := o.Named(event)
	if len(named) == 0 {
		return Delivery{}, false
	}
	return named[len(named)-1], true
}

func (o *RecordingOutbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.deliveries)
}

func (o *RecordingOutbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliveries = nil
}
