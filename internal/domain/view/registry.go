package view

import (
	"fmt"
	"sort"
)

// Registry resolves views by name. It is read-only after construction.
type Registry struct {
	views map[string]View
}

// NewRegistry indexes views by name, rejecting duplicates.
func NewRegistry(views ...View) (*Registry, error) {
	m := make(map[string]View, len(views))
	for _, v := range views {
		if _, dup := m[v.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate view %q", ErrInvalidView, v.Name())
		}
		m[v.Name()] = v
	}
	return &Registry{views: m}, nil
}

// Get returns the named view.
func (r *Registry) Get(name string) (View, bool) {
	v, ok := r.views[name]
	return v, ok
}

// List returns all views sorted by name.
func (r *Registry) List() []View {
	out := make([]View, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
