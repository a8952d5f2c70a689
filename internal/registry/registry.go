package registry

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/mwnorman/pluginspi/internal/config"
	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/fsutil"
	"github.com/mwnorman/pluginspi/internal/inject"
	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/internal/matcher"
	"github.com/mwnorman/pluginspi/internal/model"
	"github.com/mwnorman/pluginspi/internal/resolver"
	"github.com/mwnorman/pluginspi/internal/scanner"
)

// LoggerResource names the binding through which plugins receive the
// registry's logger, offered as a *slog.Logger.
const LoggerResource = "pluginspi.logger"

// Registry holds the manifests discovered at construction and the resource
// bindings registered since.
type Registry struct {
	loader    *loader.Loader
	logger    *slog.Logger
	manifests []*model.Manifest
	bindings  inject.Bindings
}

// New creates a Registry and performs its one scan of the search path.
func New(opts ...Option) *Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.loader == nil {
		o.loader = loader.Default()
	}
	if !o.loggerSet {
		o.logger = slog.Default()
	}

	r := &Registry{
		loader:   o.loader,
		logger:   o.logger,
		bindings: make(inject.Bindings),
	}
	ctx := r.context()
	logger := ctxlog.FromContext(ctx)
	AddResource(r, LoggerResource, logger)

	entries, marker := o.searchPath, o.marker
	if !o.pathSet || marker == "" {
		cfg, err := config.Load()
		if err != nil {
			logger.Error("Problem reading search path configuration", "error", err)
			cfg = config.Default()
		}
		if !o.pathSet {
			entries = cfg.SearchPath()
		}
		if marker == "" {
			marker = cfg.Marker
		}
	}
	if len(entries) == 0 {
		logger.Warn("Search path is empty, no plugins will be found", "env", config.Prefix+"_PATH")
	}

	filter := o.filter
	if filter == nil {
		filter = markerFilter(ctx, marker)
	}

	refs := scanner.ScanAll(ctx, entries, filter)
	r.manifests = resolver.New(r.loader).ResolveAll(ctx, refs)

	logger.Debug("Registry initialized.", "search_path", entries, "declarations", len(refs), "manifests", len(r.manifests))
	return r
}

func markerFilter(ctx context.Context, marker string) fsutil.Filter {
	if marker == "" {
		marker = config.DefaultMarker
	}
	filter, err := fsutil.GlobFilter(marker)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Marker is not a valid name pattern, matching it literally", "marker", marker, "error", err)
		return fsutil.SuffixFilter(marker)
	}
	return filter
}

// context carries the registry's logger to the components it drives.
func (r *Registry) context() context.Context {
	return ctxlog.WithLogger(context.Background(), r.logger)
}

// Loader returns the loader declarations were resolved against.
func (r *Registry) Loader() *loader.Loader {
	return r.loader
}

// Manifests returns a copy of the manifests found at construction.
func (r *Registry) Manifests() []*model.Manifest {
	return append([]*model.Manifest(nil), r.manifests...)
}

// FindPlugins returns a freshly constructed and wired instance of every
// provided type that declares and implements contract, an interface type.
// Candidates that fail to construct are logged and left out. The order of
// the result is not significant.
func (r *Registry) FindPlugins(contract reflect.Type) []any {
	ctx := r.context()
	logger := ctxlog.FromContext(ctx)

	matches := matcher.Match(ctx, contract, r.manifests)
	plugins := make([]any, 0, len(matches))
	for _, td := range matches {
		instance, err := inject.Instantiate(ctx, td, r.bindings)
		if err != nil {
			logger.Error("Problem instantiating plugin", "type", td.QualifiedName(), "error", err)
			continue
		}
		if got := reflect.TypeOf(instance); got == nil || !got.Implements(contract) {
			err := fmt.Errorf("%w: %s: constructed %s does not implement %s", inject.ErrConstruct, td.QualifiedName(), got, contract)
			logger.Error("Problem instantiating plugin", "type", td.QualifiedName(), "error", err)
			continue
		}
		plugins = append(plugins, instance)
	}

	logger.Debug("Plugins found.", "contract", typeName(contract), "count", len(plugins))
	return plugins
}

// Find is the typed form of FindPlugins. T must be an interface type.
func Find[T any](r *Registry) []T {
	found := r.FindPlugins(reflect.TypeFor[T]())
	plugins := make([]T, 0, len(found))
	for _, instance := range found {
		if p, ok := instance.(T); ok {
			plugins = append(plugins, p)
		}
	}
	return plugins
}

// AddResource binds value under name for every later FindPlugins call,
// replacing an earlier binding of the same name. typ is the type the value is
// offered as; a nil typ means the value's dynamic type. Instances returned
// before the call are not affected.
func (r *Registry) AddResource(name string, typ reflect.Type, value any) {
	if typ == nil && value != nil {
		typ = reflect.TypeOf(value)
	}
	r.bindings[name] = inject.Binding{Type: typ, Value: value}
	ctxlog.Trace(r.context(), "Resource bound.", "resource", name, "type", typeName(typ))
}

// AddResource is the typed form of (*Registry).AddResource: value is offered
// as a T.
func AddResource[T any](r *Registry, name string, value T) {
	r.AddResource(name, reflect.TypeFor[T](), value)
}

func typeName(typ reflect.Type) string {
	if typ == nil {
		return "<nil>"
	}
	return typ.String()
}
