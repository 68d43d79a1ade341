// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chat

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/classpoll/models"
)

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	l := New(100, 1000)
	fixed := time.UnixMilli(1_700_000_000_000)
	l.SetClock(func() time.Time { return fixed })

	first := l.Append(models.ChatMessage{SenderID: "s1", Message: "hi"})
	second := l.Append(models.ChatMessage{SenderID: "s1", Message: "again"})

	if first.ID != fixed.UnixMilli() {
		t.Errorf("expected id %d, got %d", fixed.UnixMilli(), first.ID)
	}
	if second.ID <= first.ID {
		t.Errorf("ids must increase on same-millisecond collision: %d then %d", first.ID, second.ID)
	}
	if !second.Timestamp.Equal(fixed) {
		t.Errorf("expected timestamp %v, got %v", fixed, second.Timestamp)
	}
}

func TestHistoryBoundedAtHundred(t *testing.T) {
	l := New(models.DefaultChatLimit, 1000)
	for i := 0; i < 130; i++ {
		l.Append(models.ChatMessage{Message: fmt.Sprintf("m%d", i)})
	}

	history := l.History()
	if len(history) != 100 {
		t.Fatalf("expected 100 messages, got %d", len(history))
	}
	if history[0].Message != "m30" || history[99].Message != "m129" {
		t.Errorf("expected m30..m129 oldest first, got %s..%s", history[0].Message, history[99].Message)
	}
}

func TestNormalize(t *testing.T) {
	l := New(10, 5)

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{"trims", "  hey  ", "hey", nil},
		{"blank", "   ", "", ErrEmptyMessage},
		{"at limit", "héllo", "héllo", nil},
		{"over limit", strings.Repeat("x", 6), "", ErrMessageTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Normalize(tt.body)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
