package export

import (
	"sort"
	"sync"
)

// Registry tracks the render targets currently attached by running exports
type Registry struct {
	mu      sync.Mutex
	targets map[string]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]struct{})}
}

// Attach records a target handle
func (r *Registry) Attach(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[id] = struct{}{}
}

// Detach removes only the given handle
func (r *Registry) Detach(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.targets, id)
}

// Active returns the attached handles, sorted
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.targets))
	for id := range r.targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of attached handles
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.targets)
}
