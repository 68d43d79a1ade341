// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a validated Config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Later sources override earlier ones:

 1. Default()
 2. YAML file from -c/--config or CLASSPOLL_CONFIG
 3. Environment variables, after loading --env-file (default .env);
    the file never overrides variables already set
 4. CLI flags that were explicitly set

# CLI Flags

	-p, --port            Server port
	-o, --origin          Allowed origin, repeatable (* allows any)
	--history-limit       Concluded polls kept
	--chat-limit          Chat messages kept
	--max-chat-length     Longest chat message in characters
	--max-time-limit      Longest poll in seconds
	--log-level           debug, info, warn, error
	--log-format          text or json

# Environment Variables

	PORT, ALLOWED_ORIGINS (comma separated), HISTORY_LIMIT, CHAT_LIMIT,
	MAX_CHAT_LENGTH, MAX_TIME_LIMIT, LOG_LEVEL, LOG_FORMAT

# YAML

	port: 4000
	allowed_origins: [http://localhost:5173]
	history_limit: 50
	log_format: json
*/
package cliparse
