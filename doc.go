// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the classpoll server.

classpoll coordinates live classroom polls. One teacher creates a
multiple-choice question with a countdown, students vote once each, and
everyone sees results update in real time. A poll closes when the timer
runs out or when every registered student has voted. Concluded polls go
into a short history; a side chat runs alongside.

# Starting the Server

No configuration is required:

	go run .

Or with flags:

	go run . -p 4000 -o http://localhost:5173 --log-format json

# Configuration

Settings come from CLI flags, environment variables (a .env file is
loaded into the environment if present), and an optional YAML file, in
that order of precedence:

  - PORT (-p): Server port (default: 4000)
  - ALLOWED_ORIGINS (-o): Browser origins allowed to connect
  - HISTORY_LIMIT, CHAT_LIMIT: Retention (default: 50, 100)
  - MAX_CHAT_LENGTH, MAX_TIME_LIMIT: Input bounds
  - LOG_LEVEL, LOG_FORMAT: slog output

# Architecture

All state is in memory and owned by a single dispatcher goroutine:

  - dispatch: Event handlers and the single-writer loop
  - registry, ledger, poll, history, chat: State the dispatcher owns
  - hub: WebSocket connections and outbound fanout
  - handlers, router, middleware: HTTP surface
  - models: Wire and domain types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
