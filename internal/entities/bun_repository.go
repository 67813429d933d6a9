package entities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-l10n/entities"
	translationsvc "github.com/goliatone/go-l10n/internal/translation"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewEntityRepository builds the typed repository used by cached read paths.
func NewEntityRepository(db *bun.DB) repository.Repository[*entities.Entity] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*entities.Entity]{
		NewRecord: func() *entities.Entity { return &entities.Entity{} },
		GetID: func(e *entities.Entity) uuid.UUID {
			return e.ID
		},
		SetID: func(e *entities.Entity, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(e *entities.Entity) string {
			if e.Slug == nil {
				return ""
			}
			return *e.Slug
		},
	})
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

// BunEntityRepository stores entities through bun. It works against any
// bun.IDB so the store can rebind it to a transaction.
type BunEntityRepository struct {
	db     bun.IDB
	cached repository.Repository[*entities.Entity]
}

// NewBunEntityRepository constructs the repository without caching.
func NewBunEntityRepository(db bun.IDB) *BunEntityRepository {
	return &BunEntityRepository{db: db}
}

// NewBunEntityRepositoryWithCache constructs the repository with the typed
// read path wrapped in go-repository-cache. Only identifier reads go through
// the cache; everything touching the transaction stays on the raw handle.
func NewBunEntityRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunEntityRepository {
	r := &BunEntityRepository{db: db}
	if cacheService != nil && keySerializer != nil {
		r.cached = wrapWithCache(NewEntityRepository(db), cacheService, keySerializer)
	}
	return r
}

// Create inserts the entity, converting unique-index rejections into slug
// conflicts the coordinator can act on.
func (r *BunEntityRepository) Create(ctx context.Context, record *entities.Entity) (*entities.Entity, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if translationsvc.IsUniqueViolation(err) && record.Slug != nil {
			return nil, &entities.SlugConflictError{Kind: record.Kind, Slug: *record.Slug}
		}
		return nil, fmt.Errorf("entity insert: %w", err)
	}
	return record, nil
}

// GetByID retrieves a live entity by identifier.
func (r *BunEntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Entity, error) {
	if r.cached != nil {
		record, err := r.cached.GetByID(ctx, id.String())
		if err == nil && !record.Deleted() {
			return record, nil
		}
	}
	record := new(entities.Entity)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: "entity", Key: id.String()}
		}
		return nil, fmt.Errorf("entity lookup: %w", err)
	}
	return record, nil
}

// GetBySlug retrieves a live entity by kind and slug.
func (r *BunEntityRepository) GetBySlug(ctx context.Context, kind, slug string) (*entities.Entity, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	record := new(entities.Entity)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.kind = ?", kind).
		Where("?TableAlias.slug = ?", slug).
		Where("?TableAlias.deleted_at IS NULL").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &entities.NotFoundError{Kind: kind, Key: slug}
		}
		return nil, fmt.Errorf("entity lookup: %w", err)
	}
	return record, nil
}

// List returns the live entities of a kind in creation order.
func (r *BunEntityRepository) List(ctx context.Context, kind string) ([]*entities.Entity, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	records := []*entities.Entity{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.kind = ?", kind).
		Where("?TableAlias.deleted_at IS NULL").
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("entity list: %w", err)
	}
	return records, nil
}

// Update rewrites the entity's mutable columns.
func (r *BunEntityRepository) Update(ctx context.Context, record *entities.Entity) (*entities.Entity, error) {
	res, err := r.db.NewUpdate().
		Model(record).
		Column("slug", "attributes", "updated_at").
		Where("?TableAlias.id = ?", record.ID).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		if translationsvc.IsUniqueViolation(err) && record.Slug != nil {
			return nil, &entities.SlugConflictError{Kind: record.Kind, Slug: *record.Slug}
		}
		return nil, fmt.Errorf("entity update: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, &entities.NotFoundError{Kind: record.Kind, Key: record.ID.String()}
	}
	return record, nil
}

// SoftDelete stamps deleted_at and leaves locale records untouched.
func (r *BunEntityRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*entities.Entity)(nil)).
		Set("deleted_at = ?", at).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("entity delete: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &entities.NotFoundError{Kind: "entity", Key: id.String()}
	}
	return nil
}

// SlugExists answers the allocator's namespace probe. Soft-deleted rows keep
// their slug reserved so a restore cannot collide.
func (r *BunEntityRepository) SlugExists(ctx context.Context, namespace, slug string, excludeID uuid.UUID) (bool, error) {
	query := r.db.NewSelect().
		Model((*entities.Entity)(nil)).
		Where("?TableAlias.kind = ?", strings.ToLower(strings.TrimSpace(namespace))).
		Where("?TableAlias.slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("?TableAlias.id != ?", excludeID)
	}
	count, err := query.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("slug lookup: %w", err)
	}
	return count > 0, nil
}

// BunStore bundles the bun repositories behind the Store contract.
type BunStore struct {
	db            *bun.DB
	entityRepo    *BunEntityRepository
	localeRecords *translationsvc.BunLocaleRecordRepository
}

// BunStoreOption customizes store construction.
type BunStoreOption func(*bunStoreConfig)

type bunStoreConfig struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
}

// WithStoreCache wires go-repository-cache into identifier reads.
func WithStoreCache(cacheService cache.CacheService, keySerializer cache.KeySerializer) BunStoreOption {
	return func(cfg *bunStoreConfig) {
		cfg.cacheService = cacheService
		cfg.keySerializer = keySerializer
	}
}

// NewBunStore creates a store over the supplied database handle.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	cfg := &bunStoreConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &BunStore{
		db:            db,
		entityRepo:    NewBunEntityRepositoryWithCache(db, cfg.cacheService, cfg.keySerializer),
		localeRecords: translationsvc.NewBunLocaleRecordRepositoryWithCache(db, cfg.cacheService, cfg.keySerializer),
	}
}

func newBunTxStore(tx bun.Tx) *BunStore {
	return &BunStore{
		entityRepo:    NewBunEntityRepository(tx),
		localeRecords: translationsvc.NewBunLocaleRecordRepository(tx),
	}
}

// Entities implements Store.
func (s *BunStore) Entities() EntityRepository { return s.entityRepo }

// LocaleRecords implements Store.
func (s *BunStore) LocaleRecords() translationsvc.LocaleRecordRepository {
	return s.localeRecords
}

// RunInTx implements Store, handing the callback a transaction-bound store.
// A store already bound to a transaction runs the callback in place.
func (s *BunStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, newBunTxStore(tx))
	})
}
