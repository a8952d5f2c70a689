package inject

import (
	"reflect"
)

// ResourceTag is the struct tag naming the resource a field receives.
const ResourceTag = "resource"

// Binding is a named resource: the type it was registered as and its value.
type Binding struct {
	Type  reflect.Type
	Value any
}

// Resources is a read-only view of the registered bindings.
type Resources interface {
	Lookup(name string) (any, bool)
}

// Bindings maps resource names to their bindings. Setting a name again
// replaces type and value together.
type Bindings map[string]Binding

// Lookup implements Resources.
func (b Bindings) Lookup(name string) (any, bool) {
	binding, ok := b[name]
	if !ok {
		return nil, false
	}
	return binding.Value, true
}

// Resource fetches the named resource as a T. It reports false when the name
// is unbound or the value is not a T.
func Resource[T any](res Resources, name string) (T, bool) {
	var zero T
	if res == nil {
		return zero, false
	}
	v, ok := res.Lookup(name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
