package registry

import (
	"errors"
	"fmt"
	"sync"

	"businessmath-mcp/internal/tool"
)

// Sentinel errors. Use errors.Is to check.
var (
	ErrDuplicateTool = errors.New("duplicate tool name")
	ErrNotFound      = errors.New("tool not found")
	ErrFrozen        = errors.New("registry is frozen")
	ErrEmptyName     = errors.New("tool name must not be empty")
)

// Registry owns the name to handler map. It is populated by sequential
// Register calls during startup, then frozen; after Freeze, registration
// is an error and the map is read-only for the process lifetime, which is
// what makes unlimited concurrent Lookup calls safe.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]tool.Handler
	frozen bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		tools: make(map[string]tool.Handler),
	}
}

// Register adds a handler under its definition's name. It fails if the
// registry is frozen, the name is empty, or the name is already taken;
// on duplicate the first registration stays active.
func (r *Registry) Register(h tool.Handler) error {
	name := h.Definition().Name
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrFrozen, name)
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}
	r.tools[name] = h
	r.order = append(r.order, name)
	return nil
}

// Freeze ends the registration phase. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (tool.Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return h, nil
}

// List returns every registered definition in registration order.
func (r *Registry) List() []tool.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]tool.Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
