package registry

import "sync"

var (
	mu     sync.Mutex
	shared *Registry
)

// Get returns the process-wide Registry, creating it on first use with the
// default loader and the environment configuration.
func Get() *Registry {
	mu.Lock()
	defer mu.Unlock()

	if shared == nil {
		shared = New()
	}
	return shared
}

// Set replaces the process-wide Registry. Instances obtained from the old one
// are unaffected. Setting nil makes the next Get build a fresh Registry.
func Set(r *Registry) {
	mu.Lock()
	defer mu.Unlock()

	shared = r
}
