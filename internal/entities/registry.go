package entities

import (
	"strings"
	"sync"

	"github.com/goliatone/go-l10n/entities"
)

// Registry holds the entity kinds the coordinator serves. Registering a
// kind once replaces the per-entity duplication the protocol grew out of:
// every kind shares the same write path, slug policy aside.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]entities.Kind
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]entities.Kind)}
}

// Register adds or replaces a kind descriptor.
func (r *Registry) Register(kind entities.Kind) error {
	name := strings.ToLower(strings.TrimSpace(kind.Name))
	if name == "" {
		return entities.ErrKindRequired
	}
	kind.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[name] = kind
	return nil
}

// Get resolves a kind by name.
func (r *Registry) Get(name string) (entities.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.kinds[strings.ToLower(strings.TrimSpace(name))]
	return kind, ok
}

// Names returns the registered kind names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		out = append(out, name)
	}
	return out
}

// DefaultRegistry returns a registry pre-loaded with the content kinds the
// admin backend manages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, kind := range []entities.Kind{
		{Name: "events", UsesSlug: true},
		{Name: "colleges", UsesSlug: true},
		{Name: "posts", UsesSlug: true},
		{Name: "services", UsesSlug: true},
		{Name: "programs", UsesSlug: true},
		{Name: "merchants", UsesSlug: true},
		{Name: "testimonials", UsesSlug: false},
		{Name: "activities", UsesSlug: false},
	} {
		_ = r.Register(kind)
	}
	return r
}
