package entities

import (
	"context"
	"time"

	"github.com/goliatone/go-l10n/entities"
	translationsvc "github.com/goliatone/go-l10n/internal/translation"
	"github.com/google/uuid"
)

// EntityRepository abstracts storage for parent rows. Lookups exclude
// soft-deleted rows; SlugExists doubles as the slug allocator's namespace
// probe.
type EntityRepository interface {
	Create(ctx context.Context, record *entities.Entity) (*entities.Entity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Entity, error)
	GetBySlug(ctx context.Context, kind, slug string) (*entities.Entity, error)
	List(ctx context.Context, kind string) ([]*entities.Entity, error)
	Update(ctx context.Context, record *entities.Entity) (*entities.Entity, error)
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	SlugExists(ctx context.Context, namespace, slug string, excludeID uuid.UUID) (bool, error)
}

// Store bundles the repositories a coordinated write mutates together.
// RunInTx hands the callback a store bound to one storage transaction, so
// the entity patch, slug allocation, and locale upserts commit or roll back
// as a unit.
type Store interface {
	Entities() EntityRepository
	LocaleRecords() translationsvc.LocaleRecordRepository
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
