package translation

import (
	"context"

	"github.com/goliatone/go-l10n/translation"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LocaleRecordRepository abstracts storage for (parent_id, locale) rows.
// Implementations must return translation.NotFoundError for misses and
// translation.ConflictError when the composite unique index rejects a write.
type LocaleRecordRepository interface {
	GetByParentAndLocale(ctx context.Context, parentID uuid.UUID, locale string) (*translation.LocaleRecord, error)
	ListByParent(ctx context.Context, parentID uuid.UUID, locales ...string) ([]*translation.LocaleRecord, error)
	Upsert(ctx context.Context, record *translation.LocaleRecord) (*translation.LocaleRecord, error)
}

// NewLocaleRecordRepository builds the typed go-repository-bun repository
// used by non-transactional read paths.
func NewLocaleRecordRepository(db *bun.DB) repository.Repository[*translation.LocaleRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*translation.LocaleRecord]{
		NewRecord: func() *translation.LocaleRecord { return &translation.LocaleRecord{} },
		GetID: func(r *translation.LocaleRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *translation.LocaleRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *translation.LocaleRecord) string {
			if r == nil {
				return ""
			}
			return r.ID.String()
		},
	})
}
