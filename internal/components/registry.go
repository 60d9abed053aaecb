package components

import (
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/arbor/internal/fiber"
)

// Registry maps component names to components. It satisfies
// compiler.Resolver.
type Registry struct {
	mu    sync.RWMutex
	comps map[string]*fiber.Component
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{comps: make(map[string]*fiber.Component)}
}

// Default returns a registry holding the demo components bound to
// controls.
func Default(controls *Controls) *Registry {
	r := NewRegistry()
	r.MustRegister(Counter(controls))
	r.MustRegister(List(controls))
	r.MustRegister(Greeting())
	return r
}

// Register adds comp under its name. Names must be unique.
func (r *Registry) Register(comp *fiber.Component) error {
	if comp == nil || comp.Name == "" {
		return fmt.Errorf("register component: missing name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comps[comp.Name]; ok {
		return fmt.Errorf("register component: %q already registered", comp.Name)
	}
	r.comps[comp.Name] = comp
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(comp *fiber.Component) {
	if err := r.Register(comp); err != nil {
		panic(err)
	}
}

// Component returns the named component.
func (r *Registry) Component(name string) (*fiber.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comps[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.comps))
	for n := range r.comps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
