package inject

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/loader"
)

// ErrConstruct is returned when a candidate cannot be constructed.
var ErrConstruct = errors.New("construction failed")

// Configurer is implemented by plugins that wire themselves from the
// registered resources. Configure runs after tag injection.
type Configurer interface {
	Configure(res Resources) error
}

// PostConstructor is implemented by plugins that need a hook once they are
// constructed and wired.
type PostConstructor interface {
	PostConstruct() error
}

// Instantiate constructs td and wires the new instance with bindings.
// The only error it returns wraps ErrConstruct; every later failure is logged.
func Instantiate(ctx context.Context, td *loader.TypeDescriptor, bindings Bindings) (any, error) {
	logger := ctxlog.FromContext(ctx).With("type", td.QualifiedName())

	instance, err := construct(td)
	if err != nil {
		return nil, err
	}
	ctxlog.Trace(ctx, "Constructed plugin instance", "type", td.QualifiedName())

	InjectResources(ctx, instance, bindings)

	if c, ok := instance.(Configurer); ok {
		if err := safeCall(func() error { return c.Configure(bindings) }); err != nil {
			logger.Error("Problem configuring plugin", "error", err)
		}
	}

	RunHooks(ctx, instance, td.Hooks())
	return instance, nil
}

func construct(td *loader.TypeDescriptor) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("%w: %s: panic: %v", ErrConstruct, td.QualifiedName(), r)
		}
	}()

	instance, err = td.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConstruct, td.QualifiedName(), err)
	}
	if instance == nil {
		return nil, fmt.Errorf("%w: %s: constructor returned nil", ErrConstruct, td.QualifiedName())
	}
	return instance, nil
}

// InjectResources sets every field of instance tagged with ResourceTag whose
// binding exists and is assignable. instance must be a pointer to a struct;
// anything else is left alone.
func InjectResources(ctx context.Context, instance any, bindings Bindings) {
	logger := ctxlog.FromContext(ctx)

	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		ctxlog.Trace(ctx, "Instance is not a struct pointer, skipping injection", "type", fmt.Sprintf("%T", instance))
		return
	}
	structVal := v.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		name, ok := field.Tag.Lookup(ResourceTag)
		if !ok || name == "" || name == "-" {
			continue
		}

		binding, ok := bindings[name]
		if !ok {
			ctxlog.Trace(ctx, "No resource bound for field", "field", field.Name, "resource", name)
			continue
		}
		if binding.Type == nil || !binding.Type.AssignableTo(field.Type) {
			logger.Error("Resource type is not assignable to field",
				"field", field.Name, "resource", name, "bound", fmt.Sprint(binding.Type), "field_type", field.Type.String())
			continue
		}
		if err := setField(structVal.Field(i), binding.Value); err != nil {
			logger.Error("Problem injecting resource", "field", field.Name, "resource", name, "error", err)
			continue
		}
		ctxlog.Trace(ctx, "Injected resource", "field", field.Name, "resource", name)
	}
}

// setField assigns value to f, bypassing the export restriction.
func setField(f reflect.Value, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot set field: %v", r)
		}
	}()

	if !f.CanSet() {
		if !f.CanAddr() {
			return errors.New("field is not addressable")
		}
		f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}

	if value == nil {
		f.SetZero()
		return nil
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(f.Type()) {
		return fmt.Errorf("value of type %s is not assignable to %s", rv.Type(), f.Type())
	}
	f.Set(rv)
	return nil
}

// RunHooks invokes the named zero-argument methods of instance, then
// PostConstruct when instance is a PostConstructor. Each hook runs at most
// once and in isolation: an error or panic is logged and the next hook still
// runs. A hook may return nothing or a single error.
func RunHooks(ctx context.Context, instance any, methods []string) {
	logger := ctxlog.FromContext(ctx)
	v := reflect.ValueOf(instance)

	seen := make(map[string]struct{}, len(methods)+1)
	for _, name := range methods {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		method := v.MethodByName(name)
		if !method.IsValid() {
			logger.Error("Post-construction hook not found", "hook", name, "type", fmt.Sprintf("%T", instance))
			continue
		}
		if err := safeCall(func() error { return callHook(method) }); err != nil {
			logger.Error("Problem invoking post-construction hook", "hook", name, "error", err)
			continue
		}
		ctxlog.Trace(ctx, "Invoked post-construction hook", "hook", name)
	}

	pc, ok := instance.(PostConstructor)
	if !ok {
		return
	}
	if _, dup := seen["PostConstruct"]; dup {
		return
	}
	if err := safeCall(pc.PostConstruct); err != nil {
		logger.Error("Problem invoking post-construction hook", "hook", "PostConstruct", "error", err)
		return
	}
	ctxlog.Trace(ctx, "Invoked post-construction hook", "hook", "PostConstruct")
}

var errorType = reflect.TypeFor[error]()

func callHook(method reflect.Value) error {
	mt := method.Type()
	if mt.NumIn() != 0 {
		return fmt.Errorf("hook takes %d arguments, want none", mt.NumIn())
	}
	switch {
	case mt.NumOut() == 0:
		method.Call(nil)
		return nil
	case mt.NumOut() == 1 && mt.Out(0) == errorType:
		out := method.Call(nil)
		if err, _ := out[0].Interface().(error); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("hook has signature %s, want func() or func() error", mt)
	}
}

// safeCall runs fn, turning a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
