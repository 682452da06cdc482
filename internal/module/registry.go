package module

import (
	"fmt"
	"sync"
)

// Registry maintains known modules in registration order. The order is used
// when invoking modules; it carries no business priority (see profile ranks).
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[string]Module{}}
}

// Register installs a module. Returns an error if the ID already exists.
func (r *Registry) Register(m Module) error {
	if m == nil {
		return fmt.Errorf("module: module is required")
	}
	info := m.Info()
	if err := info.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[info.ID]; exists {
		return fmt.Errorf("module: %s already registered", info.ID)
	}
	r.modules[info.ID] = m
	r.order = append(r.order, info.ID)
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(m Module) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Lookup returns a module by ID.
func (r *Registry) Lookup(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[id]
	return m, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// IDs returns module identifiers in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
