// Package logging configures the process-wide slog logger for the digest
// tool. Every run gets a ULID run ID so that log lines from concurrent or
// scripted invocations can be correlated.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Options holds the logger configuration.
type Options struct {
	// Level is the minimum level to emit.
	Level slog.Level

	// Writer receives log output (normally stderr).
	Writer io.Writer

	// RunID tags every record; generate one with GenerateRunID.
	RunID string

	// Quiet raises the level to Error regardless of Level.
	Quiet bool
}

// GenerateRunID generates a new ULID for run identification.
func GenerateRunID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // run IDs are not security sensitive
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a
// slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", name)
	}
}

// Setup builds the logger and installs it as the slog default. It returns
// the logger so callers can pass it explicitly as well.
func Setup(opts Options) *slog.Logger {
	level := opts.Level
	if opts.Quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}
	slog.SetDefault(logger)
	return logger
}
