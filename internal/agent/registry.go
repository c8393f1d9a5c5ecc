package agent

import (
	"context"
	"fmt"
)

// Capability is one named operation the reasoning model may invoke. Input and
// output are single strings so any capability stays generically callable.
type Capability struct {
	Name        string
	Description string
	Run         func(ctx context.Context, input string) (string, error)
}

// Registry is the only coupling point between the core operations and the
// external reasoning collaborator. Registration order is preserved so the
// tool listing shown to the model is stable.
type Registry struct {
	order []string
	caps  map[string]Capability
}

func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

func (r *Registry) Register(c Capability) error {
	if c.Name == "" || c.Run == nil {
		return fmt.Errorf("capability must have a name and a run function")
	}
	if _, exists := r.caps[c.Name]; exists {
		return fmt.Errorf("capability %q is already registered", c.Name)
	}
	r.caps[c.Name] = c
	r.order = append(r.order, c.Name)
	return nil
}

func (r *Registry) Get(name string) (Capability, bool) {
	c, ok := r.caps[name]
	return c, ok
}

func (r *Registry) List() []Capability {
	out := make([]Capability, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.caps[name])
	}
	return out
}

// Names returns the registered capability names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
