package app

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/registry"
	"github.com/mwnorman/pluginspi/modules/helpers/valued"
	"github.com/mwnorman/pluginspi/modules/socketio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modulesPath = filepath.Join("..", "..", "modules")

func TestApp_RunHelpers(t *testing.T) {
	// --- Arrange ---
	cfg, err := NewConfig(Config{
		SearchPath: []string{modulesPath},
		Resources: []Resource{
			{Name: valued.ValueResource, Type: reflect.TypeFor[int](), Value: 3},
		},
		LogLevel: "error",
	})
	require.NoError(t, err)
	testApp, out := SetupAppTest(t, cfg)

	// --- Act ---
	runErr := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, runErr)
	output := out.String()
	assert.Equal(t, 1, strings.Count(output, "Helper1 setUp\n"))
	assert.Equal(t, 1, strings.Count(output, "with a little help from my plugin friends\n"))
	assert.Equal(t, 1, strings.Count(output, "(some value=3)some more help\n"))
	assert.Less(t, strings.Index(output, "Helper1 setUp"), strings.Index(output, "with a little help"),
		"the hook runs before the helper is used")
}

func TestApp_InstallsProcessWideRegistry(t *testing.T) {
	cfg, err := NewConfig(Config{SearchPath: []string{modulesPath}})
	require.NoError(t, err)

	testApp, _ := SetupAppTest(t, cfg)

	assert.Same(t, testApp.Registry(), registry.Get())
	assert.Len(t, testApp.Registry().Manifests(), 3)
}

func TestApp_NoPlugins(t *testing.T) {
	cfg, err := NewConfig(Config{SearchPath: []string{t.TempDir()}})
	require.NoError(t, err)
	testApp, out := SetupAppTest(t, cfg)

	require.NoError(t, testApp.Run(context.Background()))
	assert.Contains(t, out.String(), "No helper plugins found.")
}

func TestApp_RunNotifiersWithoutConnection(t *testing.T) {
	cfg, err := NewConfig(Config{SearchPath: []string{modulesPath}, Contract: ContractNotifier})
	require.NoError(t, err)
	testApp, out := SetupAppTest(t, cfg)

	runErr := testApp.Run(context.Background())

	require.ErrorIs(t, runErr, socketio.ErrNotConnected)
	assert.Contains(t, out.String(), "Notifier failed.")
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		in       Config
		contract string
		errMsg   string
	}{
		{name: "default contract", in: Config{}, contract: ContractHelper},
		{name: "notifier", in: Config{Contract: ContractNotifier}, contract: ContractNotifier},
		{name: "unknown contract", in: Config{Contract: "printer"}, errMsg: "unknown contract"},
		{name: "unnamed resource", in: Config{Resources: []Resource{{Value: 1}}}, errMsg: "resource name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.in)
			if tc.errMsg != "" {
				require.ErrorContains(t, err, tc.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.contract, cfg.Contract)
			assert.Equal(t, "plugins", cfg.Event)
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level      string
		traceShown bool
		debugShown bool
	}{
		{level: "trace", traceShown: true, debugShown: true},
		{level: "debug", debugShown: true},
		{level: "info"},
		{level: "bogus"},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tc.level, "text", &buf)
			ctx := ctxlog.WithLogger(context.Background(), logger)

			ctxlog.Trace(ctx, "trace message")
			logger.Debug("debug message")

			assert.Equal(t, tc.traceShown, strings.Contains(buf.String(), "trace message"))
			assert.Equal(t, tc.debugShown, strings.Contains(buf.String(), "debug message"))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger("info", "json", &buf).Info("hello")

	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}
