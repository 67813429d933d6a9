package entities

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-l10n/entities"
	translationsvc "github.com/goliatone/go-l10n/internal/translation"
	"github.com/google/uuid"
)

// MemoryEntityRepository is an in-memory implementation for scaffolding and
// tests.
type MemoryEntityRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*entities.Entity
}

// NewMemoryEntityRepository creates an empty in-memory repository.
func NewMemoryEntityRepository() *MemoryEntityRepository {
	return &MemoryEntityRepository{records: make(map[uuid.UUID]*entities.Entity)}
}

// Create inserts the supplied entity, enforcing per-kind slug uniqueness
// the way the schema index does.
func (m *MemoryEntityRepository) Create(_ context.Context, record *entities.Entity) (*entities.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.Slug != nil {
		for _, existing := range m.records {
			if existing.ID == record.ID {
				continue
			}
			if existing.Kind == record.Kind && existing.Slug != nil && *existing.Slug == *record.Slug {
				return nil, &entities.SlugConflictError{Kind: record.Kind, Slug: *record.Slug}
			}
		}
	}
	copied := cloneEntity(record)
	m.records[copied.ID] = copied
	return cloneEntity(copied), nil
}

// GetByID retrieves a live entity by identifier.
func (m *MemoryEntityRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.Deleted() {
		return nil, &entities.NotFoundError{Kind: "entity", Key: id.String()}
	}
	return cloneEntity(rec), nil
}

// GetBySlug retrieves a live entity by kind and slug.
func (m *MemoryEntityRepository) GetBySlug(_ context.Context, kind, slug string) (*entities.Entity, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.Deleted() || rec.Kind != kind || rec.Slug == nil {
			continue
		}
		if *rec.Slug == slug {
			return cloneEntity(rec), nil
		}
	}
	return nil, &entities.NotFoundError{Kind: kind, Key: slug}
}

// List returns the live entities of a kind.
func (m *MemoryEntityRepository) List(_ context.Context, kind string) ([]*entities.Entity, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entities.Entity, 0)
	for _, rec := range m.records {
		if rec.Deleted() || rec.Kind != kind {
			continue
		}
		out = append(out, cloneEntity(rec))
	}
	return out, nil
}

// Update replaces the stored entity.
func (m *MemoryEntityRepository) Update(_ context.Context, record *entities.Entity) (*entities.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok || existing.Deleted() {
		return nil, &entities.NotFoundError{Kind: record.Kind, Key: record.ID.String()}
	}
	copied := cloneEntity(record)
	m.records[copied.ID] = copied
	return cloneEntity(copied), nil
}

// SoftDelete stamps deleted_at, keeping the row and its locale records.
func (m *MemoryEntityRepository) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.Deleted() {
		return &entities.NotFoundError{Kind: "entity", Key: id.String()}
	}
	stamped := at
	rec.DeletedAt = &stamped
	return nil
}

// SlugExists implements the allocator's namespace probe. Soft-deleted rows
// keep their slug reserved, matching the schema's non-partial unique index.
func (m *MemoryEntityRepository) SlugExists(_ context.Context, namespace, slug string, excludeID uuid.UUID) (bool, error) {
	namespace = strings.ToLower(strings.TrimSpace(namespace))

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.Kind != namespace || rec.Slug == nil {
			continue
		}
		if *rec.Slug != slug {
			continue
		}
		if excludeID != uuid.Nil && rec.ID == excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func cloneEntity(src *entities.Entity) *entities.Entity {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Slug != nil {
		slug := *src.Slug
		copied.Slug = &slug
	}
	if src.DeletedAt != nil {
		at := *src.DeletedAt
		copied.DeletedAt = &at
	}
	if src.Attributes != nil {
		copied.Attributes = make(map[string]any, len(src.Attributes))
		for k, v := range src.Attributes {
			copied.Attributes[k] = v
		}
	}
	return &copied
}

// MemoryStore bundles the in-memory repositories. RunInTx executes the
// callback against the store itself: there is no rollback, so transactional
// invariants are exercised by the storage integration tests instead.
type MemoryStore struct {
	entities    *MemoryEntityRepository
	localeStore *translationsvc.MemoryLocaleRecordRepository
}

// NewMemoryStore creates a store over fresh in-memory repositories.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:    NewMemoryEntityRepository(),
		localeStore: translationsvc.NewMemoryLocaleRecordRepository(),
	}
}

// Entities implements Store.
func (s *MemoryStore) Entities() EntityRepository { return s.entities }

// LocaleRecords implements Store.
func (s *MemoryStore) LocaleRecords() translationsvc.LocaleRecordRepository {
	return s.localeStore
}

// RunInTx implements Store.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, s)
}
