package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownNamespace is returned when a symbolic name does not resolve to
	// a registered namespace.
	ErrUnknownNamespace = errors.New("unknown namespace")
	// ErrUnknownType is returned when a namespace holds no type of the
	// requested name.
	ErrUnknownType = errors.New("unknown type")
)

// Module is the interface that every compiled plugin package implements to
// contribute its namespaces.
type Module interface {
	Register(l *Loader)
}

// Loader holds all registered namespaces for one application instance.
type Loader struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// New creates an empty Loader.
func New() *Loader {
	return &Loader{namespaces: make(map[string]*Namespace)}
}

var defaultLoader = New()

// Default returns the process-wide Loader used by registries that were not
// given one explicitly.
func Default() *Loader {
	return defaultLoader
}

// Define registers a namespace holding the given types and returns it.
// Defining the same namespace twice, or two types with the same name in one
// namespace, is a programmer error and panics.
func (l *Loader) Define(name string, types ...*TypeDescriptor) *Namespace {
	if name == "" {
		panic("namespace name must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.namespaces[name]; exists {
		panic(fmt.Sprintf("namespace '%s' already defined", name))
	}

	ns := &Namespace{name: name, types: make(map[string]*TypeDescriptor, len(types))}
	for _, td := range types {
		if _, exists := ns.types[td.name]; exists {
			panic(fmt.Sprintf("type '%s' already defined in namespace '%s'", td.name, name))
		}
		td.namespace = name
		ns.types[td.name] = td
		ns.order = append(ns.order, td)
	}

	slog.Debug("Defining namespace.", "namespace", name, "types", len(types))
	l.namespaces[name] = ns
	return ns
}

// Namespace resolves a namespace by its dotted name.
func (l *Loader) Namespace(name string) (*Namespace, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ns, ok := l.namespaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNamespace, name)
	}
	return ns, nil
}

// Type resolves a qualified type name such as "helpers.basic.Helper1".
func (l *Loader) Type(qualified string) (*TypeDescriptor, error) {
	idx := strings.LastIndex(qualified, ".")
	if idx <= 0 || idx == len(qualified)-1 {
		return nil, fmt.Errorf("%w: %s is not a qualified type name", ErrUnknownType, qualified)
	}
	ns, err := l.Namespace(qualified[:idx])
	if err != nil {
		return nil, err
	}
	return ns.Type(qualified[idx+1:])
}

// Namespaces returns the names of all defined namespaces, sorted.
func (l *Loader) Namespaces() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.namespaces))
	for name := range l.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Namespace is a loaded module: a named set of type descriptors.
type Namespace struct {
	name  string
	types map[string]*TypeDescriptor
	order []*TypeDescriptor
}

// Name returns the dotted namespace name.
func (n *Namespace) Name() string { return n.name }

// Type looks up a type by its simple name.
func (n *Namespace) Type(name string) (*TypeDescriptor, error) {
	td, ok := n.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownType, n.name, name)
	}
	return td, nil
}

// Types returns the namespace's types in definition order.
func (n *Namespace) Types() []*TypeDescriptor {
	return append([]*TypeDescriptor(nil), n.order...)
}
