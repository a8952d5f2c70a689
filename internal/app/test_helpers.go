package app

import (
	"testing"

	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/internal/registry"
	"github.com/mwnorman/pluginspi/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The
// process-wide registry is reset when the test ends.
func SetupAppTest(t *testing.T, cfg *Config, modules ...loader.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	out := &testutil.SafeBuffer{}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	testApp := NewApp(out, cfg, modules...)

	t.Cleanup(func() {
		registry.Set(nil)
		if testutil.LogsEnabled() {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
		}
	})

	return testApp, out
}
