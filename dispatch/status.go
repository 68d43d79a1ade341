// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dispatch

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// humanizeSince renders t relative to now, e.g. "3 minutes ago"
func humanizeSince(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// humanizeUptime renders the time since start without a suffix, e.g. "2 hours"
func humanizeUptime(start, now time.Time) string {
	return strings.TrimSpace(humanize.RelTime(start, now, "", ""))
}
