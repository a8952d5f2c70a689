package loader

import (
	"fmt"
	"reflect"
)

// TypeDescriptor describes one concrete plugin type.
type TypeDescriptor struct {
	name      string
	namespace string
	typ       reflect.Type
	contracts []reflect.Type
	hooks     []string
	construct func() (any, error)
}

// Option configures a TypeDescriptor.
type Option func(*TypeDescriptor)

// Type describes the concrete type T under the given simple name. T is
// normally a struct type; instances are handed out as *T. A pointer type is
// accepted and unwrapped.
func Type[T any](name string, opts ...Option) *TypeDescriptor {
	if name == "" {
		panic("type name must not be empty")
	}
	typ := reflect.TypeFor[T]()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() == reflect.Interface {
		panic(fmt.Sprintf("type '%s' must be concrete, got interface %s", name, typ))
	}

	td := &TypeDescriptor{name: name, typ: typ}
	for _, opt := range opts {
		opt(td)
	}
	return td
}

// Implements declares that the type provides the capability contract C,
// which must be an interface type.
func Implements[C any]() Option {
	contract := reflect.TypeFor[C]()
	if contract.Kind() != reflect.Interface {
		panic(fmt.Sprintf("contract %s is not an interface type", contract))
	}
	return func(td *TypeDescriptor) {
		td.contracts = append(td.contracts, contract)
	}
}

// PostConstruct marks exported zero-argument methods to be invoked once
// after construction and resource injection.
func PostConstruct(methods ...string) Option {
	return func(td *TypeDescriptor) {
		td.hooks = append(td.hooks, methods...)
	}
}

// WithConstructor replaces default construction (a zeroed *T) with fn.
func WithConstructor(fn func() (any, error)) Option {
	return func(td *TypeDescriptor) {
		td.construct = fn
	}
}

// Name returns the simple type name.
func (td *TypeDescriptor) Name() string { return td.name }

// QualifiedName returns "namespace.Name", or just the name when the type has
// not been defined in a namespace yet.
func (td *TypeDescriptor) QualifiedName() string {
	if td.namespace == "" {
		return td.name
	}
	return td.namespace + "." + td.name
}

// GoType returns the concrete (non-pointer) Go type.
func (td *TypeDescriptor) GoType() reflect.Type { return td.typ }

// Contracts returns the declared capability contracts.
func (td *TypeDescriptor) Contracts() []reflect.Type {
	return append([]reflect.Type(nil), td.contracts...)
}

// Declares reports whether contract is one of the declared contracts. This is
// an identity check: an interface embedding contract does not count.
func (td *TypeDescriptor) Declares(contract reflect.Type) bool {
	for _, c := range td.contracts {
		if c == contract {
			return true
		}
	}
	return false
}

// Satisfies reports whether instances (*T) implement contract.
func (td *TypeDescriptor) Satisfies(contract reflect.Type) bool {
	if contract == nil || contract.Kind() != reflect.Interface {
		return false
	}
	return reflect.PointerTo(td.typ).Implements(contract)
}

// Hooks returns the declared post-construction method names.
func (td *TypeDescriptor) Hooks() []string {
	return append([]string(nil), td.hooks...)
}

// New constructs a fresh instance.
func (td *TypeDescriptor) New() (any, error) {
	if td.construct != nil {
		return td.construct()
	}
	return reflect.New(td.typ).Interface(), nil
}

// String implements fmt.Stringer.
func (td *TypeDescriptor) String() string { return td.QualifiedName() }
