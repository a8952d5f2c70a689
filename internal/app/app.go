package app

import (
	"io"
	"log/slog"
	"reflect"

	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/internal/registry"
	"github.com/mwnorman/pluginspi/modules/helpers"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *loader.Loader
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It registers the
// modules with a fresh loader, scans the search path into a registry, installs
// that registry as the process-wide one and binds the configured resources.
func NewApp(outW io.Writer, cfg *Config, modules ...loader.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	l := loader.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(l)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "namespaces", l.Namespaces())

	opts := []registry.Option{
		registry.WithLoader(l),
		registry.WithLogger(logger),
	}
	if len(cfg.SearchPath) > 0 {
		opts = append(opts, registry.WithSearchPath(cfg.SearchPath...))
	}
	if cfg.Marker != "" {
		opts = append(opts, registry.WithMarker(cfg.Marker))
	}
	reg := registry.New(opts...)
	registry.Set(reg)

	reg.AddResource(helpers.OutputResource, reflect.TypeFor[io.Writer](), outW)
	for _, res := range cfg.Resources {
		reg.AddResource(res.Name, res.Type, res.Value)
	}
	logger.Debug("Resources bound.", "count", len(cfg.Resources)+1)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   l,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
