// Package config holds process-level settings shared by the command-line
// tools: logging setup and log-level selection.
package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes logging from the LOG_LEVEL environment variable, or at
// debug level when debug is true.
func Init(debug bool) zerolog.Level {
	InitLogger()
	level := LogLevel()
	if debug {
		level = zerolog.DebugLevel
	}
	SetLogLevel(level)
	log.Debug().Str("log_level", level.String()).Msg("logger initialised")
	return level
}

// LogLevel parses LOG_LEVEL, defaulting to info.
func LogLevel() zerolog.Level {
	return ParseLogLevel(os.Getenv("LOG_LEVEL"))
}

// ParseLogLevel maps a level name to a zerolog level; unknown names give info.
func ParseLogLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
