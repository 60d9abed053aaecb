package components

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownAction is returned by Invoke for names nothing has registered.
var ErrUnknownAction = errors.New("unknown action")

// Controls is a registry of named actions published by mounted components.
// Thread-safe: actions may be registered and invoked from any goroutine,
// but actions that call state setters belong on the engine's driver
// goroutine (see engine.Dispatch).
type Controls struct {
	mu      sync.Mutex
	actions map[string]func()
}

// NewControls creates an empty registry.
func NewControls() *Controls {
	return &Controls{actions: make(map[string]func())}
}

// Register publishes fn under name, replacing any previous action.
func (c *Controls) Register(name string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[name] = fn
}

// Invoke runs the named action.
func (c *Controls) Invoke(name string) error {
	c.mu.Lock()
	fn, ok := c.actions[name]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("invoke %q: %w", name, ErrUnknownAction)
	}
	fn()
	return nil
}

// Names returns the registered action names in sorted order.
func (c *Controls) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.actions))
	for n := range c.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
