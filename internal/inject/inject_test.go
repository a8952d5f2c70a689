package inject

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Counter interface{ Count() int }

type wired struct {
	value    int     `resource:"k"`
	Label    string  `resource:"label"`
	Counter  Counter `resource:"counter"`
	ignored  int
	Untagged string

	calls []string
}

func (w *wired) SetUp() {
	w.calls = append(w.calls, "SetUp:"+w.Label)
}

func (w *wired) PostConstruct() error {
	w.calls = append(w.calls, "PostConstruct")
	return nil
}

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func newCtx(t *testing.T) (context.Context, *testutil.SafeBuffer) {
	t.Helper()
	logger, buf := testutil.NewLogger(t)
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func TestInjectResources(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := newCtx(t)
	bindings := Bindings{
		"k":       {Type: reflect.TypeFor[int](), Value: 3},
		"label":   {Type: reflect.TypeFor[string](), Value: "primary"},
		"counter": {Type: reflect.TypeFor[fixedCounter](), Value: fixedCounter(7)},
	}
	w := &wired{}

	// --- Act ---
	InjectResources(ctx, w, bindings)

	// --- Assert ---
	assert.Equal(t, 3, w.value)
	assert.Equal(t, "primary", w.Label)
	require.NotNil(t, w.Counter)
	assert.Equal(t, 7, w.Counter.Count())
	assert.Zero(t, w.ignored)
	assert.Empty(t, w.Untagged)
}

func TestInjectResources_AbsentBindingKeepsZero(t *testing.T) {
	t.Parallel()

	ctx, _ := newCtx(t)
	w := &wired{}

	InjectResources(ctx, w, Bindings{})

	assert.Zero(t, w.value)
	assert.Empty(t, w.Label)
	assert.Nil(t, w.Counter)
}

func TestInjectResources_TypeMismatch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		binding Binding
	}{
		{name: "registered type not assignable", binding: Binding{Type: reflect.TypeFor[string](), Value: "3"}},
		{name: "registered type without value of that type", binding: Binding{Type: reflect.TypeFor[int](), Value: "3"}},
		{name: "missing registered type", binding: Binding{Value: 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, logs := newCtx(t)
			w := &wired{}

			InjectResources(ctx, w, Bindings{"k": tc.binding})

			assert.Zero(t, w.value)
			assert.Contains(t, logs.String(), "level=ERROR")
		})
	}
}

func TestInjectResources_NonStruct(t *testing.T) {
	t.Parallel()

	ctx, _ := newCtx(t)
	n := 5
	assert.NotPanics(t, func() {
		InjectResources(ctx, &n, Bindings{"k": {Type: reflect.TypeFor[int](), Value: 3}})
		InjectResources(ctx, nil, nil)
	})
	assert.Equal(t, 5, n)
}

type hooked struct {
	order []string
}

func (h *hooked) First() { h.order = append(h.order, "First") }
func (h *hooked) Broken() error {
	h.order = append(h.order, "Broken")
	return errors.New("boom")
}
func (h *hooked) Panics() {
	h.order = append(h.order, "Panics")
	panic("kaboom")
}
func (h *hooked) WithArgs(int) {}
func (h *hooked) Last()        { h.order = append(h.order, "Last") }

func TestRunHooks_IsolatesFailures(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, logs := newCtx(t)
	h := &hooked{}

	// --- Act ---
	RunHooks(ctx, h, []string{"First", "Broken", "Panics", "Missing", "WithArgs", "First", "Last"})

	// --- Assert ---
	assert.Equal(t, []string{"First", "Broken", "Panics", "Last"}, h.order)
	out := logs.String()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "kaboom")
	assert.Contains(t, out, "Post-construction hook not found")
}

func TestRunHooks_PostConstructorRunsOnce(t *testing.T) {
	t.Parallel()

	ctx, _ := newCtx(t)
	w := &wired{}

	RunHooks(ctx, w, []string{"PostConstruct"})

	assert.Equal(t, []string{"PostConstruct"}, w.calls)
}

type configured struct {
	Port    int `resource:"port"`
	address string
	hooked  string
}

func (c *configured) Configure(res Resources) error {
	host, ok := Resource[string](res, "host")
	if !ok {
		return errors.New("host not bound")
	}
	c.address = host
	return nil
}

func (c *configured) PostConstruct() error {
	c.hooked = c.address
	return nil
}

func TestInstantiate(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, _ := newCtx(t)
	td := loader.Type[wired]("Wired", loader.PostConstruct("SetUp"))
	bindings := Bindings{
		"k":     {Type: reflect.TypeFor[int](), Value: 3},
		"label": {Type: reflect.TypeFor[string](), Value: "primary"},
	}

	// --- Act ---
	instance, err := Instantiate(ctx, td, bindings)

	// --- Assert ---
	require.NoError(t, err)
	w, ok := instance.(*wired)
	require.True(t, ok)
	assert.Equal(t, 3, w.value)
	assert.Equal(t, []string{"SetUp:primary", "PostConstruct"}, w.calls, "hooks must run once, after injection")
}

func TestInstantiate_ConfigureRunsBeforeHooks(t *testing.T) {
	t.Parallel()

	ctx, _ := newCtx(t)
	td := loader.Type[configured]("Configured")
	bindings := Bindings{
		"port": {Type: reflect.TypeFor[int](), Value: 8080},
		"host": {Type: reflect.TypeFor[string](), Value: "localhost"},
	}

	instance, err := Instantiate(ctx, td, bindings)

	require.NoError(t, err)
	c := instance.(*configured)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "localhost", c.address)
	assert.Equal(t, "localhost", c.hooked)
}

func TestInstantiate_ConfigureErrorKeepsInstance(t *testing.T) {
	t.Parallel()

	ctx, logs := newCtx(t)

	instance, err := Instantiate(ctx, loader.Type[configured]("Configured"), Bindings{})

	require.NoError(t, err)
	assert.NotNil(t, instance)
	assert.Contains(t, logs.String(), "Problem configuring plugin")
}

func TestInstantiate_ConstructionFailure(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		fn   func() (any, error)
	}{
		{name: "constructor error", fn: func() (any, error) { return nil, errors.New("no database") }},
		{name: "constructor panic", fn: func() (any, error) { panic("bad state") }},
		{name: "constructor returns nil", fn: func() (any, error) { return nil, nil }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := newCtx(t)
			td := loader.Type[wired]("Wired", loader.WithConstructor(tc.fn))

			instance, err := Instantiate(ctx, td, nil)

			require.ErrorIs(t, err, ErrConstruct)
			assert.Nil(t, instance)
		})
	}
}

func TestResource(t *testing.T) {
	t.Parallel()

	res := Bindings{"n": {Type: reflect.TypeFor[int](), Value: 3}}

	n, ok := Resource[int](res, "n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = Resource[string](res, "n")
	assert.False(t, ok)

	_, ok = Resource[int](res, "missing")
	assert.False(t, ok)

	_, ok = Resource[int](nil, "n")
	assert.False(t, ok)
}
