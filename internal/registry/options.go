package registry

import (
	"log/slog"

	"github.com/mwnorman/pluginspi/internal/fsutil"
	"github.com/mwnorman/pluginspi/internal/loader"
)

// Option configures a Registry under construction.
type Option func(*options)

type options struct {
	loader     *loader.Loader
	logger     *slog.Logger
	loggerSet  bool
	searchPath []string
	pathSet    bool
	marker     string
	filter     fsutil.Filter
}

// WithLoader resolves declarations against l instead of loader.Default().
func WithLoader(l *loader.Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithLogger sets the registry's logger. A nil logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
		o.loggerSet = true
	}
}

// WithSearchPath sets the search path entries explicitly; the environment is
// not consulted for them.
func WithSearchPath(entries ...string) Option {
	return func(o *options) {
		o.searchPath = append([]string(nil), entries...)
		o.pathSet = true
	}
}

// WithMarker sets the marker file name or glob pattern.
func WithMarker(name string) Option {
	return func(o *options) {
		o.marker = name
	}
}

// WithFilter replaces the marker name filter altogether.
func WithFilter(filter fsutil.Filter) Option {
	return func(o *options) {
		o.filter = filter
	}
}
