package tools

import (
	"fmt"
	"strings"
	"sync"
)

// Registry holds tools by name in registration order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Default returns a registry with every built-in tool, each bound to the
// model of its tier.
func Default(models Models) *Registry {
	r := NewRegistry()
	for _, entry := range catalog {
		if err := r.Register(entry.build(models.For(entry.tier))); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds t. Names are case-insensitive and must be unique.
func (r *Registry) Register(t Tool) error {
	name := strings.ToLower(t.Spec().Name)
	if name == "" {
		return fmt.Errorf("tools: tool without a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tools: %q already registered", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Get returns the tool called name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t, nil
}

// List returns the specs of all tools in registration order.
func (r *Registry) List() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
