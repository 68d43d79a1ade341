// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package chat holds the bounded chat log. Delivery is the dispatcher's job.
package chat

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/ringbuf"
)

var (
	ErrEmptyMessage   = errors.New("chat message is empty")
	ErrMessageTooLong = errors.New("chat message too long")
)

type Log struct {
	messages  *ringbuf.Buffer[models.ChatMessage]
	maxLength int
	lastID    int64
	now       func() time.Time
}

// New returns a log keeping at most limit messages of at most
// maxLength runes each
func New(limit, maxLength int) *Log {
	if limit < 1 {
		limit = models.DefaultChatLimit
	}
	if maxLength < 1 {
		maxLength = models.DefaultMaxChatLength
	}
	return &Log{
		messages:  ringbuf.New[models.ChatMessage](limit),
		maxLength: maxLength,
		now:       time.Now,
	}
}

// SetClock replaces the time source
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Normalize trims body and checks it against the length limit
func (l *Log) Normalize(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > l.maxLength {
		return "", ErrMessageTooLong
	}
	return body, nil
}

// Append stamps msg with an id and timestamp and stores it.
// Ids are wall-clock milliseconds, bumped past the previous id on collision.
func (l *Log) Append(msg models.ChatMessage) models.ChatMessage {
	now := l.now()
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id

	msg.ID = id
	msg.Timestamp = now
	l.messages.Push(msg)
	return msg
}

// History returns the retained messages oldest first
func (l *Log) History() []models.ChatMessage {
	return l.messages.Oldest()
}

func (l *Log) Len() int { return l.messages.Len() }
