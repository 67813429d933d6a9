package slugs

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryNamespace is an in-memory Namespace for scaffolding and tests.
type MemoryNamespace struct {
	mu    sync.RWMutex
	slugs map[string]map[string]uuid.UUID
}

// NewMemoryNamespace creates an empty namespace index.
func NewMemoryNamespace() *MemoryNamespace {
	return &MemoryNamespace{slugs: make(map[string]map[string]uuid.UUID)}
}

// Claim records a slug as taken by the given entity id.
func (m *MemoryNamespace) Claim(namespace, slug string, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugs[namespace] == nil {
		m.slugs[namespace] = make(map[string]uuid.UUID)
	}
	m.slugs[namespace][slug] = id
}

// Release frees a slug within the namespace.
func (m *MemoryNamespace) Release(namespace, slug string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if taken := m.slugs[namespace]; taken != nil {
		delete(taken, slug)
	}
}

// SlugExists implements Namespace.
func (m *MemoryNamespace) SlugExists(_ context.Context, namespace, slug string, excludeID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owner, ok := m.slugs[namespace][slug]
	if !ok {
		return false, nil
	}
	if excludeID != uuid.Nil && owner == excludeID {
		return false, nil
	}
	return true, nil
}
