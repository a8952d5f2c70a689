// Package basic provides Helper1, a helper plugin without dependencies.
package basic

import (
	"fmt"
	"io"

	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/modules/helpers"
)

// Namespace is the symbolic name the package is registered under. Its marker
// file lives at helpers/basic/plugin-info.hcl below a search path root.
const Namespace = "helpers.basic"

// Module implements the loader.Module interface for this package.
type Module struct{}

// Helper1 prints a fixed piece of help.
type Helper1 struct {
	out   io.Writer `resource:"helpers.output"`
	ready bool
}

// SetUp is the post-construction hook of Helper1.
func (h *Helper1) SetUp() {
	h.ready = true
	if h.out != nil {
		fmt.Fprintln(h.out, "Helper1 setUp")
	}
}

// Ready reports whether SetUp ran.
func (h *Helper1) Ready() bool {
	return h.ready
}

// Help implements helpers.Helper.
func (h *Helper1) Help(w io.Writer) {
	fmt.Fprintln(w, "with a little help from my plugin friends")
}

// Register defines the namespace with the loader.
func (m *Module) Register(l *loader.Loader) {
	l.Define(Namespace,
		loader.Type[Helper1]("Helper1",
			loader.Implements[helpers.Helper](),
			loader.PostConstruct("SetUp"),
		),
	)
}
