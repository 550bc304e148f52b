package resolver

import (
	"errors"
	"fmt"
)

var (
	errEmptyProviderID     = errors.New("empty provider ID")
	errDuplicateProviderID = errors.New("duplicate provider ID")
	errNilProvider         = errors.New("nil provider")
)

// Entry is a single registered provider
type Entry struct {
	Provider Provider
	ID       string
}

// Registry is an ordered, immutable set of providers keyed by ID.
// The order is both the priority and the call order
type Registry struct {
	index   map[string]int
	entries []Entry
}

// RegistryFn yields the registry to use for a single resolution
type RegistryFn func() *Registry

// NewRegistry creates a new registry from the given entries, in order
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		index:   make(map[string]int, len(entries)),
		entries: make([]Entry, 0, len(entries)),
	}

	for _, e := range entries {
		if e.ID == "" {
			return nil, errEmptyProviderID
		}

		if e.Provider == nil {
			return nil, fmt.Errorf("%w: %s", errNilProvider, e.ID)
		}

		if _, exists := r.index[e.ID]; exists {
			return nil, fmt.Errorf("%w: %s", errDuplicateProviderID, e.ID)
		}

		r.index[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

// Static returns a RegistryFn that always yields r
func Static(r *Registry) RegistryFn {
	return func() *Registry {
		return r
	}
}

// Len returns the number of registered providers
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}

// Entries returns the registered providers, in priority order
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}

// IDs returns the registered provider IDs, in priority order
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}

	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.ID)
	}

	return out
}

// Get returns the provider registered under id
func (r *Registry) Get(id string) (Provider, bool) {
	if r == nil {
		return nil, false
	}

	i, ok := r.index[id]
	if !ok {
		return nil, false
	}

	return r.entries[i].Provider, true
}
