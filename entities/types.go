package entities

import (
	"time"

	"github.com/goliatone/go-l10n/translation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entity is the canonical parent row for a localized record set. Kind names
// the entity namespace (events, colleges, posts, …); non-localized columns
// travel in Attributes so one coordinator serves every kind.
type Entity struct {
	bun.BaseModel `bun:"table:entities,alias:e"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Kind       string         `bun:"kind,notnull" json:"kind"`
	Slug       *string        `bun:"slug" json:"slug,omitempty"`
	Attributes map[string]any `bun:"attributes,type:jsonb" json:"attributes,omitempty"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt  *time.Time     `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
}

// Deleted reports whether the entity is soft-deleted.
func (e *Entity) Deleted() bool {
	return e != nil && e.DeletedAt != nil
}

// Kind describes one entity namespace and how the coordinator treats it.
type Kind struct {
	// Name is the namespace identifier, e.g. "events".
	Name string
	// UsesSlug enables slug allocation for the kind.
	UsesSlug bool
}

// WriteRequest is the generic change-set for a single entity write. A nil
// ID means creation. Absent fields are never overwritten: Attributes is a
// sparse patch and Changes carries only the supplied locale fields.
type WriteRequest struct {
	ID         *uuid.UUID
	Kind       string
	Attributes map[string]any
	// Slug explicitly assigns or regenerates the slug. Left nil, the slug
	// is derived from the authored name on create and kept stable on
	// update.
	Slug *string
	// RegenerateSlug reallocates the slug from the current name on update.
	RegenerateSlug bool
	Changes        translation.ChangeSet
	// AutoTranslate overrides the default policy (on for create, off for
	// update) when set.
	AutoTranslate *bool
	// Locale is the authored locale assumed for slug derivation when the
	// change-set touches several. Empty uses the configured default.
	Locale string
}

// Creating reports whether the request is a creation.
func (r WriteRequest) Creating() bool {
	return r.ID == nil || *r.ID == uuid.Nil
}

// View is the caller-facing read shape: the entity's own columns merged
// with exactly one resolved locale. LocaleUsed is the requested locale, the
// fallback, or nil when neither has content.
type View struct {
	ID          uuid.UUID      `json:"id"`
	Kind        string         `json:"kind"`
	Slug        *string        `json:"slug,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	LocaleUsed  *string        `json:"locale_used"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
