// Package log provides the small logging interface used throughout this
// module, backed by log/slog so callers get structured, levelled output
// instead of a bare fmt.Printf.
package log

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is the logging surface every package depends on rather than
// importing log/slog directly, so tests and the null logger can swap it
// out cheaply.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	l *slog.Logger
}

// New returns a Logger that writes leveled, human-readable text to
// stderr via slog's text handler.
func New() Logger {
	return &logger{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.l.Info(fmt.Sprintf(format, args...))
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.l.Error(fmt.Sprintf(format, args...))
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.l.Debug(fmt.Sprintf(format, args...))
}
