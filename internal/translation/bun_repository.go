package translation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-l10n/translation"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunLocaleRecordRepository stores locale records through bun. It accepts
// any bun.IDB so coordinators can bind it to their transaction.
type BunLocaleRecordRepository struct {
	db    bun.IDB
	typed repository.Repository[*translation.LocaleRecord]
}

// NewBunLocaleRecordRepository constructs the repository.
func NewBunLocaleRecordRepository(db bun.IDB) *BunLocaleRecordRepository {
	return &BunLocaleRecordRepository{db: db}
}

// NewBunLocaleRecordRepositoryWithCache routes list reads through the typed
// repository, optionally wrapped in go-repository-cache. Writes and
// transaction-bound paths stay on the raw handle.
func NewBunLocaleRecordRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunLocaleRecordRepository {
	typed := NewLocaleRecordRepository(db)
	if cacheService != nil && keySerializer != nil {
		typed = repositorycache.New(typed, cacheService, keySerializer)
	}
	return &BunLocaleRecordRepository{db: db, typed: typed}
}

// WithDB returns a copy bound to the supplied handle, typically a bun.Tx.
func (r *BunLocaleRecordRepository) WithDB(db bun.IDB) *BunLocaleRecordRepository {
	return &BunLocaleRecordRepository{db: db}
}

// GetByParentAndLocale fetches the record for the composite key.
func (r *BunLocaleRecordRepository) GetByParentAndLocale(ctx context.Context, parentID uuid.UUID, locale string) (*translation.LocaleRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("locale record repository: database not configured")
	}
	record := new(translation.LocaleRecord)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.parent_id = ?", parentID).
		Where("?TableAlias.locale = ?", translation.NormalizeLocale(locale)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &translation.NotFoundError{Resource: "locale_record", Key: parentID.String() + "/" + locale}
		}
		return nil, fmt.Errorf("locale record lookup: %w", err)
	}
	return record, nil
}

// ListByParent returns the parent's records, optionally filtered by locale.
func (r *BunLocaleRecordRepository) ListByParent(ctx context.Context, parentID uuid.UUID, locales ...string) ([]*translation.LocaleRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("locale record repository: database not configured")
	}
	normalized := make([]string, 0, len(locales))
	for _, locale := range locales {
		if code := translation.NormalizeLocale(locale); code != "" {
			normalized = append(normalized, code)
		}
	}

	if r.typed != nil {
		records, _, err := r.typed.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.parent_id = ?", parentID)
			if len(normalized) > 0 {
				q = q.Where("?TableAlias.locale IN (?)", bun.In(normalized))
			}
			return q
		}))
		if err != nil {
			return nil, mapRepositoryError(err, "locale_record", parentID.String())
		}
		return records, nil
	}

	records := []*translation.LocaleRecord{}
	query := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.parent_id = ?", parentID)
	if len(normalized) > 0 {
		query = query.Where("?TableAlias.locale IN (?)", bun.In(normalized))
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("locale record list: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &translation.NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

// Upsert inserts or updates the record keyed by (parent_id, locale). The
// schema-level unique index is the arbiter under concurrent creation; the
// ON CONFLICT clause converts the race into an update.
func (r *BunLocaleRecordRepository) Upsert(ctx context.Context, record *translation.LocaleRecord) (*translation.LocaleRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("locale record repository: database not configured")
	}
	if record == nil || record.ParentID == uuid.Nil {
		return nil, translation.ErrParentIDRequired
	}
	record.Locale = translation.NormalizeLocale(record.Locale)
	if record.Locale == "" {
		return nil, translation.ErrLocaleRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (parent_id, locale) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, &translation.ConflictError{
				Resource: "locale_record",
				Key:      record.ParentID.String() + "/" + record.Locale,
				Err:      err,
			}
		}
		return nil, fmt.Errorf("locale record upsert: %w", err)
	}

	// A conflicting row keeps its original id; re-read so callers see the
	// persisted truth.
	return r.GetByParentAndLocale(ctx, record.ParentID, record.Locale)
}

// IsUniqueViolation reports whether the storage error came from a unique
// index. It covers the sqlite and postgres phrasings used by the supported
// dialects.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
