package app

import (
	"io"
	"log/slog"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
)

// newLogger builds the application's logger writing to outW. An unknown level
// name logs at info; any format other than "json" is text. The global logger
// is left alone.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, err := ctxlog.ParseLevel(levelStr)
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: ctxlog.ReplaceLevel}

	var handler slog.Handler = slog.NewTextHandler(outW, opts)
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	}

	logger := slog.New(handler)
	if err != nil {
		logger.Warn("Falling back to info level", "error", err)
	}
	return logger
}
