// Package logging sets up the process-wide slog logger
package logging

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values give info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "dev", "development", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "production", "prod":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init installs a text handler writing to w as the default logger
func Init(level string, w io.Writer) *slog.Logger {
	logger := slog.New(
		slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: ParseLevel(level),
		}),
	)
	slog.SetDefault(logger)
	return logger
}

// For returns the default logger tagged with subsystem
func For(subsystem string) *slog.Logger {
	return slog.Default().With("subsystem", subsystem)
}

// MaxLogStringLength defines the maximum length for user-provided strings in logs
const MaxLogStringLength = 200

var unprintable = regexp.MustCompile(`[^\p{L}\p{N}\p{P}\p{S}\p{Z}]`)

// Sanitize makes a user-controlled string safe to log: control characters
// become spaces and long strings are truncated
func Sanitize(input string) string {
	if input == "" {
		return ""
	}

	if len(input) > MaxLogStringLength {
		input = input[:MaxLogStringLength] + "... (truncated)"
	}

	// Pre-process CRLF to avoid double spaces
	input = strings.ReplaceAll(input, "\r\n", "\n")

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	return unprintable.ReplaceAllString(sanitized, "")
}
