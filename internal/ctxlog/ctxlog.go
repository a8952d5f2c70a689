// Package ctxlog provides a context key for safely passing a slog.Logger
// instance through context.Context.
package ctxlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace is the finest logging level, below slog.LevelDebug. It is used
// for per-file and per-field scan and injection events.
const LevelTrace = slog.Level(-8)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the slog.Logger in a context.Context.
var loggerKey = key{}

// discard is handed out when no logger travels with the context. Logging is
// observability only, so a missing logger must not change behaviour.
var discard = slog.New(slog.DiscardHandler)

// WithLogger returns a new context with the provided logger embedded. A nil
// logger is stored as a discarding logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = discard
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns a logger that discards everything.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return discard
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return discard
}

// Trace logs msg at LevelTrace.
func Trace(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Log(ctx, LevelTrace, msg, args...)
}

// levels maps the accepted level names, lower case, to their slog levels.
var levels = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name (trace, debug, info, warn or error, in any
// case) to its slog.Level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return slog.LevelInfo, nil
	}
	level, ok := levels[name]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q: must be 'trace', 'debug', 'info', 'warn', or 'error'", name)
	}
	return level, nil
}

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr that prints LevelTrace
// as TRACE instead of DEBUG-4.
func ReplaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}
