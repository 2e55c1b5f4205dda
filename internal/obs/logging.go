// Package obs contains observability utilities such as logging and tracing.
package obs

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the service.
//
// It starts as an info-level JSON logger so packages may log before InitLogger runs.
var Logger = newJSONLogger(slog.LevelInfo)

func newJSONLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// ParseLevel maps a level name to a slog.Level; unknown names mean info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// InitLogger replaces the global Logger with a JSON handler at the given level.
func InitLogger(level string) {
	Logger = newJSONLogger(ParseLevel(level))
}
