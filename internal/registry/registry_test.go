package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type helper interface {
	Help(w io.Writer)
}

type notifier interface {
	Notify(msg string) error
}

type plainHelper struct{}

func (*plainHelper) Help(w io.Writer) { fmt.Fprint(w, "fixed help") }

type valuedHelper struct {
	value     int `resource:"k"`
	hookCalls int
	hookSaw   int
}

func (h *valuedHelper) Help(w io.Writer) { fmt.Fprintf(w, "value=%d", h.value) }

func (h *valuedHelper) SetUp() {
	h.hookCalls++
	h.hookSaw = h.value
}

type brokenHelper struct{}

func (*brokenHelper) Help(io.Writer) {}

type bell struct{}

func (*bell) Notify(string) error { return nil }

// fixtureLoader defines two namespaces: "fix.a" with the plain, broken and
// notifier types and "fix.b" with the valued helper.
func fixtureLoader() *loader.Loader {
	l := loader.New()
	modules := []loader.Module{
		&testutil.SimpleModule{Namespace: "fix.a", Types: []*loader.TypeDescriptor{
			loader.Type[plainHelper]("Plain", loader.Implements[helper]()),
			loader.Type[brokenHelper]("Broken", loader.Implements[helper](), loader.WithConstructor(func() (any, error) {
				return nil, errors.New("cannot start")
			})),
			loader.Type[bell]("Bell", loader.Implements[notifier]()),
		}},
		&testutil.SimpleModule{Namespace: "fix.b", Types: []*loader.TypeDescriptor{
			loader.Type[valuedHelper]("Valued", loader.Implements[helper](), loader.PostConstruct("SetUp")),
		}},
	}
	for _, m := range modules {
		m.Register(l)
	}
	return l
}

// newFixtureRegistry lays out "fix.a" as a directory and "fix.b" inside a zip
// bundle, both on the search path.
func newFixtureRegistry(t *testing.T) (*Registry, *testutil.SafeBuffer) {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "plugins")
	testutil.WriteFiles(t, dir, map[string]string{
		"fix/a/plugin-info.hcl": `plugin { provides = [Plain, Broken, Bell] }`,
		"fix/a/README.md":       `not a marker`,
	})
	bundle := filepath.Join(root, "valued.zip")
	testutil.WriteZip(t, bundle, map[string]string{
		"fix/b/plugin-info.hcl": `plugin { provides = ["Valued"] }`,
	})

	logger, logs := testutil.NewLogger(t)
	r := New(
		WithLoader(fixtureLoader()),
		WithLogger(logger),
		WithSearchPath(dir, bundle),
		WithMarker("plugin-info.hcl"),
	)
	return r, logs
}

func helpOutputs(helpers []helper) []string {
	out := make([]string, 0, len(helpers))
	for _, h := range helpers {
		var buf bytes.Buffer
		h.Help(&buf)
		out = append(out, buf.String())
	}
	return out
}

func TestRegistry_EndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r, logs := newFixtureRegistry(t)
	AddResource(r, "k", 3)

	// --- Act ---
	helpers := Find[helper](r)

	// --- Assert ---
	require.Len(t, helpers, 2)
	assert.ElementsMatch(t, []string{"fixed help", "value=3"}, helpOutputs(helpers))
	assert.Contains(t, logs.String(), "Problem instantiating plugin")
}

func TestRegistry_Manifests(t *testing.T) {
	t.Parallel()

	r, _ := newFixtureRegistry(t)

	manifests := r.Manifests()
	require.Len(t, manifests, 2)
	assert.Equal(t, "fix.a.plugin-info", manifests[0].Symbol)
	assert.Equal(t, "fix.b.plugin-info", manifests[1].Symbol)
	assert.True(t, manifests[1].FSInformation.Archive != "")

	manifests[0] = nil
	assert.NotNil(t, r.Manifests()[0], "Manifests must return a copy")
}

func TestRegistry_MatchesOnlyRequestedContract(t *testing.T) {
	t.Parallel()

	r, _ := newFixtureRegistry(t)

	notifiers := Find[notifier](r)
	require.Len(t, notifiers, 1)
	assert.IsType(t, &bell{}, notifiers[0])

	assert.Empty(t, Find[interface{ Unknown() }](r))
}

func TestRegistry_Injection(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		bind  func(r *Registry)
		value int
	}{
		{name: "bound by name and type", bind: func(r *Registry) { r.AddResource("k", reflect.TypeFor[int](), 3) }, value: 3},
		{name: "absent binding leaves zero", bind: func(*Registry) {}, value: 0},
		{name: "mismatched type leaves zero", bind: func(r *Registry) { AddResource(r, "k", "3") }, value: 0},
		{name: "later binding replaces earlier", bind: func(r *Registry) {
			AddResource(r, "k", 1)
			AddResource(r, "k", 5)
		}, value: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newFixtureRegistry(t)
			tc.bind(r)

			var valued *valuedHelper
			for _, h := range Find[helper](r) {
				if v, ok := h.(*valuedHelper); ok {
					valued = v
				}
			}

			require.NotNil(t, valued, "construction must succeed whatever the binding")
			assert.Equal(t, tc.value, valued.value)
		})
	}
}

func TestRegistry_HookRunsOnceAfterInjection(t *testing.T) {
	t.Parallel()

	r, _ := newFixtureRegistry(t)
	AddResource(r, "k", 3)

	for _, h := range Find[helper](r) {
		if v, ok := h.(*valuedHelper); ok {
			assert.Equal(t, 1, v.hookCalls)
			assert.Equal(t, 3, v.hookSaw)
			return
		}
	}
	t.Fatal("valued helper not found")
}

func TestRegistry_RequeryIsIdempotent(t *testing.T) {
	t.Parallel()

	r, _ := newFixtureRegistry(t)
	AddResource(r, "k", 3)

	first := Find[helper](r)
	second := Find[helper](r)

	assert.ElementsMatch(t, helpOutputs(first), helpOutputs(second))
	require.Len(t, second, len(first))
	for i := range first {
		assert.NotSame(t, first[i], second[i], "every call constructs fresh instances")
	}
}

func TestRegistry_BindingsAreNotRetroactive(t *testing.T) {
	t.Parallel()

	r, _ := newFixtureRegistry(t)
	AddResource(r, "k", 1)
	before := Find[helper](r)

	AddResource(r, "k", 2)
	after := Find[helper](r)

	assert.Contains(t, helpOutputs(before), "value=1")
	assert.Contains(t, helpOutputs(after), "value=2")
}

func TestRegistry_EmptySearchPath(t *testing.T) {
	t.Parallel()

	logger, logs := testutil.NewLogger(t)
	r := New(WithLoader(fixtureLoader()), WithLogger(logger), WithSearchPath())

	assert.Empty(t, r.Manifests())
	assert.Empty(t, r.FindPlugins(reflect.TypeFor[helper]()))
	assert.Contains(t, logs.String(), "Search path is empty")
}

func TestRegistry_UnreadableEntriesAreSkipped(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"good/fix/a/plugin-info.hcl":  `plugin { provides = [Plain] }`,
		"corrupt.zip":                 "this is not a zip file",
		"bad/fix/b/plugin-info.hcl":   `plugin { provides = [`,
		"bad/nowhere/plugin-info.hcl": `plugin { provides = [Plain] }`,
	})

	// --- Act ---
	r := New(
		WithLoader(fixtureLoader()),
		WithLogger(nil),
		WithSearchPath(
			filepath.Join(root, "missing"),
			filepath.Join(root, "corrupt.zip"),
			filepath.Join(root, "bad"),
			filepath.Join(root, "good"),
		),
	)

	// --- Assert ---
	require.Len(t, r.Manifests(), 1)
	assert.Len(t, Find[helper](r), 1)
}

func TestRegistry_CustomMarkerAndFilter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"fix/a/provides.hcl":    `plugin { provides = [Plain] }`,
		"fix/b/plugin-info.hcl": `plugin { provides = [Valued] }`,
	})

	byMarker := New(WithLoader(fixtureLoader()), WithLogger(nil), WithSearchPath(root), WithMarker("provides.hcl"))
	require.Len(t, byMarker.Manifests(), 1)
	assert.Equal(t, "fix.a.provides", byMarker.Manifests()[0].Symbol)

	byFilter := New(WithLoader(fixtureLoader()), WithLogger(nil), WithSearchPath(root),
		WithFilter(func(name string) bool { return filepath.Ext(name) == ".hcl" }))
	assert.Len(t, byFilter.Manifests(), 2)
}

func TestSingleton(t *testing.T) {
	// --- Arrange ---
	t.Setenv("PLUGINSPI_PATH", t.TempDir())
	t.Cleanup(func() { Set(nil) })
	Set(nil)

	// --- Act ---
	first := Get()
	second := Get()

	// --- Assert ---
	require.NotNil(t, first)
	assert.Same(t, first, second, "Get must build the registry once")

	replacement := New(WithLoader(fixtureLoader()), WithLogger(nil), WithSearchPath())
	Set(replacement)
	assert.Same(t, replacement, Get())

	Set(nil)
	rebuilt := Get()
	assert.NotSame(t, replacement, rebuilt)
	assert.NotSame(t, first, rebuilt)
}

func TestSingleton_ConcurrentFirstAccess(t *testing.T) {
	// --- Arrange ---
	t.Setenv("PLUGINSPI_PATH", t.TempDir())
	t.Cleanup(func() { Set(nil) })
	Set(nil)

	const callers = 32
	results := make([]*Registry, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup

	// --- Act ---
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = Get()
		}()
	}
	close(start)
	wg.Wait()

	// --- Assert ---
	require.NotNil(t, results[0])
	for i, r := range results {
		assert.Same(t, results[0], r, "caller %d saw a different registry", i)
	}
}

type impostor struct{}

func (*impostor) Help(io.Writer) {}

func TestRegistry_DropsInstanceNotImplementingContract(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	l := loader.New()
	(&testutil.SimpleModule{Namespace: "fix.c", Types: []*loader.TypeDescriptor{
		loader.Type[plainHelper]("Plain", loader.Implements[helper]()),
		loader.Type[impostor]("Impostor", loader.Implements[helper](), loader.WithConstructor(func() (any, error) {
			return &bell{}, nil
		})),
	}}).Register(l)

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"fix/c/plugin-info.hcl": `plugin { provides = [Plain, Impostor] }`,
	})
	logger, logs := testutil.NewLogger(t)
	r := New(WithLoader(l), WithLogger(logger), WithSearchPath(dir), WithMarker("plugin-info.hcl"))

	// --- Act ---
	var plugins []any
	assert.NotPanics(t, func() { plugins = r.FindPlugins(reflect.TypeFor[helper]()) })

	// --- Assert ---
	require.Len(t, plugins, 1)
	assert.IsType(t, &plainHelper{}, plugins[0])
	assert.Contains(t, logs.String(), "does not implement")
}

type loggingHelper struct {
	logger *slog.Logger `resource:"pluginspi.logger"`
}

func (*loggingHelper) Help(io.Writer) {}

func TestRegistry_BindsLoggerAndLoader(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	l := loader.New()
	(&testutil.SimpleModule{Namespace: "fix.d", Types: []*loader.TypeDescriptor{
		loader.Type[loggingHelper]("Logging", loader.Implements[helper]()),
	}}).Register(l)

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"fix/d/plugin-info.hcl": `plugin { provides = [Logging] }`,
	})
	logger, _ := testutil.NewLogger(t)

	// --- Act ---
	r := New(WithLoader(l), WithLogger(logger), WithSearchPath(dir), WithMarker("plugin-info.hcl"))
	helpers := Find[helper](r)

	// --- Assert ---
	assert.Same(t, l, r.Loader())
	require.Len(t, helpers, 1)
	assert.Same(t, logger, helpers[0].(*loggingHelper).logger)
}
