// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"github.com/danielhkuo/classpoll/cliparse"
)

// GetTestConfig returns a config that allows TestOrigin and small limits
// so eviction is easy to reach
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Default()
	cfg.AllowedOrigins = []string{TestOrigin}
	cfg.HistoryLimit = 3
	cfg.ChatLimit = 5
	cfg.LogLevel = "debug"
	return cfg
}
