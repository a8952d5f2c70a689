package testutil

import "github.com/mwnorman/pluginspi/internal/loader"

// SimpleModule is a test helper for easily creating a mock module that
// defines a single namespace.
type SimpleModule struct {
	Namespace string
	Types     []*loader.TypeDescriptor
}

// Register implements the loader.Module interface.
func (m *SimpleModule) Register(l *loader.Loader) {
	if m.Namespace != "" {
		l.Define(m.Namespace, m.Types...)
	}
}
