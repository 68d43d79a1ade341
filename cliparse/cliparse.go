package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/classpoll/models"
)

type Config struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	HistoryLimit   int      `yaml:"history_limit"`
	ChatLimit      int      `yaml:"chat_limit"`
	MaxChatLength  int      `yaml:"max_chat_length"`
	MaxTimeLimit   int      `yaml:"max_time_limit"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:           4000,
		AllowedOrigins: []string{"http://localhost:5173"},
		HistoryLimit:   models.DefaultHistoryLimit,
		ChatLimit:      models.DefaultChatLimit,
		MaxChatLength:  models.DefaultMaxChatLength,
		MaxTimeLimit:   models.DefaultMaxTimeLimit,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// ParseFlags builds the config from defaults, an optional YAML file,
// environment variables (including a .env file) and CLI flags, in
// increasing order of precedence
func ParseFlags(args []string) (Config, error) {
	cfg := Default()

	flags := pflag.NewFlagSet("classpoll", pflag.ContinueOnError)

	var (
		port          int
		origins       []string
		historyLimit  int
		chatLimit     int
		maxChatLength int
		maxTimeLimit  int
		logLevel      string
		logFormat     string
		configFile    string
		envFile       string
	)

	// Network config
	flags.IntVarP(&port, "port", "p", 0, "Server port")
	flags.StringSliceVarP(&origins, "origin", "o", nil, "Allowed WebSocket origin, repeatable (* allows any)")

	// Limits
	flags.IntVar(&historyLimit, "history-limit", 0, "Number of concluded polls kept")
	flags.IntVar(&chatLimit, "chat-limit", 0, "Number of chat messages kept")
	flags.IntVar(&maxChatLength, "max-chat-length", 0, "Maximum chat message length in characters")
	flags.IntVar(&maxTimeLimit, "max-time-limit", 0, "Maximum poll duration in seconds")

	// Logging
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "Log format (text or json)")

	// Sources
	flags.StringVarP(&configFile, "config", "c", "", "YAML config file")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded into the environment if present")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if configFile == "" {
		configFile = os.Getenv("CLASSPOLL_CONFIG")
	}
	if configFile != "" {
		if err := loadFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// CLI flags take precedence over everything
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("origin") {
		cfg.AllowedOrigins = origins
	}
	if flags.Changed("history-limit") {
		cfg.HistoryLimit = historyLimit
	}
	if flags.Changed("chat-limit") {
		cfg.ChatLimit = chatLimit
	}
	if flags.Changed("max-chat-length") {
		cfg.MaxChatLength = maxChatLength
	}
	if flags.Changed("max-time-limit") {
		cfg.MaxTimeLimit = maxTimeLimit
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"PORT", &cfg.Port},
		{"HISTORY_LIMIT", &cfg.HistoryLimit},
		{"CHAT_LIMIT", &cfg.ChatLimit},
		{"MAX_CHAT_LENGTH", &cfg.MaxChatLength},
		{"MAX_TIME_LIMIT", &cfg.MaxTimeLimit},
	}
	for _, v := range ints {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s env variable: %w", v.name, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		cfg.AllowedOrigins = splitList(raw)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("at least one allowed origin required (use -o or ALLOWED_ORIGINS)")
	}
	if c.HistoryLimit < 1 || c.ChatLimit < 1 || c.MaxChatLength < 1 || c.MaxTimeLimit < 1 {
		return errors.New("limits must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// AllowsOrigin reports whether a browser origin may open a WebSocket
func (c Config) AllowsOrigin(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
