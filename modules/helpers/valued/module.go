// Package valued provides Helper2, a helper plugin whose output depends on an
// injected integer resource.
package valued

import (
	"fmt"
	"io"

	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/modules/helpers"
)

// Namespace is the symbolic name the package is registered under.
const Namespace = "helpers.valued"

// ValueResource is the name of the integer Helper2 prints.
const ValueResource = "some random unique resource name"

// Module implements the loader.Module interface for this package.
type Module struct{}

// Helper2 prints help prefixed with its injected value.
type Helper2 struct {
	someValue int `resource:"some random unique resource name"`
}

// Value returns the injected value, zero when none was bound.
func (h *Helper2) Value() int {
	return h.someValue
}

// Help implements helpers.Helper.
func (h *Helper2) Help(w io.Writer) {
	fmt.Fprintf(w, "(some value=%d)some more help\n", h.someValue)
}

// Register defines the namespace with the loader.
func (m *Module) Register(l *loader.Loader) {
	l.Define(Namespace,
		loader.Type[Helper2]("Helper2", loader.Implements[helpers.Helper]()),
	)
}
