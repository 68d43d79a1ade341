// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package poll runs the single active poll: validation, vote recording,
// the one-second countdown and archiving into history on close.
package poll
