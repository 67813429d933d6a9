package translation

import (
	"context"
	"sync"

	"github.com/goliatone/go-l10n/translation"
	"github.com/google/uuid"
)

type localeKey struct {
	parent uuid.UUID
	locale string
}

// MemoryLocaleRecordRepository is an in-memory implementation for
// scaffolding and tests. It enforces the (parent_id, locale) uniqueness the
// schema index provides in real storage.
type MemoryLocaleRecordRepository struct {
	mu      sync.RWMutex
	records map[localeKey]*translation.LocaleRecord
}

// NewMemoryLocaleRecordRepository creates an empty in-memory repository.
func NewMemoryLocaleRecordRepository() *MemoryLocaleRecordRepository {
	return &MemoryLocaleRecordRepository{
		records: make(map[localeKey]*translation.LocaleRecord),
	}
}

// GetByParentAndLocale retrieves the record for the composite key.
func (m *MemoryLocaleRecordRepository) GetByParentAndLocale(_ context.Context, parentID uuid.UUID, locale string) (*translation.LocaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[localeKey{parent: parentID, locale: translation.NormalizeLocale(locale)}]
	if !ok {
		return nil, &translation.NotFoundError{Resource: "locale_record", Key: parentID.String() + "/" + locale}
	}
	return cloneRecord(rec), nil
}

// ListByParent returns the parent's records, optionally filtered by locale.
func (m *MemoryLocaleRecordRepository) ListByParent(_ context.Context, parentID uuid.UUID, locales ...string) ([]*translation.LocaleRecord, error) {
	filter := map[string]struct{}{}
	for _, locale := range locales {
		filter[translation.NormalizeLocale(locale)] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*translation.LocaleRecord, 0)
	for key, rec := range m.records {
		if key.parent != parentID {
			continue
		}
		if len(filter) > 0 {
			if _, ok := filter[key.locale]; !ok {
				continue
			}
		}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

// Upsert inserts or replaces the record keyed by (parent_id, locale).
func (m *MemoryLocaleRecordRepository) Upsert(_ context.Context, record *translation.LocaleRecord) (*translation.LocaleRecord, error) {
	if record == nil || record.ParentID == uuid.Nil {
		return nil, translation.ErrParentIDRequired
	}
	code := translation.NormalizeLocale(record.Locale)
	if code == "" {
		return nil, translation.ErrLocaleRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := localeKey{parent: record.ParentID, locale: code}
	copied := cloneRecord(record)
	copied.Locale = code
	if existing, ok := m.records[key]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	}
	m.records[key] = copied
	return cloneRecord(copied), nil
}

// Count reports how many records exist, for test assertions.
func (m *MemoryLocaleRecordRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func cloneRecord(src *translation.LocaleRecord) *translation.LocaleRecord {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Description != nil {
		desc := *src.Description
		copied.Description = &desc
	}
	return &copied
}
