// Package log wraps slog with component attribution so every line can be
// traced back to the layer that emitted it.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Standard component names used across the binaries.
const (
	ComponentApp     = "app"
	ComponentClient  = "client"
	ComponentCache   = "cache"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Logger is a slog.Logger bound to a component.
type Logger struct {
	*slog.Logger
	component string
}

// New creates the root logger writing text lines to stdout at the given
// level name ("debug", "info", "warn", "error"; anything else means info).
func New(level string) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return &Logger{Logger: slog.New(handler), component: ComponentApp}
}

// ParseLevel maps a level name to its slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a logger whose lines carry the component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("component", component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the process-wide slog default so
// packages logging through slog's top-level functions share the handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
