// Package util holds small shared helpers, currently logger construction.
package util

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds a JSON logger at the requested level, falling back to info
// on unparseable input.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl)
}

// NewConsoleLogger builds a human-readable logger for interactive CLI runs.
func NewConsoleLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).With().Timestamp().Logger().Level(lvl)
}
