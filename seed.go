package l10n

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-l10n/entities"
	"github.com/goliatone/go-l10n/internal/identity"
	"github.com/goliatone/go-l10n/translation"
)

var (
	ErrSeedEntityServiceRequired = errors.New("l10n: entity service is required")
	ErrSeedKindRequired          = errors.New("l10n: seed entity kind is required")
	ErrSeedKeyRequired           = errors.New("l10n: seed entity key is required")
)

// SeedEntity describes one entity a seed run converges on. Key is the
// stable identity the entity keeps across runs: re-seeding updates the
// existing row instead of inserting a sibling.
type SeedEntity struct {
	Kind string
	Key  string
	// Slug assigns the entity slug explicitly. Left empty, slug-bearing
	// kinds derive it from the authored name on first creation.
	Slug       string
	Attributes map[string]any
	Fields     translation.ChangeSet
}

// SeedEntitiesOptions configures a seed run.
type SeedEntitiesOptions struct {
	Entities EntityService
	// Locale is the authored locale assumed for slug derivation.
	Locale string
	// AutoTranslate overrides the coordinator's creation policy when set.
	// Seed content is usually authored in both locales already, so most
	// callers pass an explicit false.
	AutoTranslate *bool
	Items         []SeedEntity
}

// SeedEntities upserts the supplied entities under deterministic
// identifiers derived from kind and key. The run is idempotent: repeated
// invocations converge every entity onto the latest seed definition.
func SeedEntities(ctx context.Context, opts SeedEntitiesOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Entities == nil {
		return ErrSeedEntityServiceRequired
	}

	seen := make(map[string]bool, len(opts.Items))
	for _, item := range opts.Items {
		kind := strings.ToLower(strings.TrimSpace(item.Kind))
		if kind == "" {
			return ErrSeedKindRequired
		}
		key := strings.TrimSpace(item.Key)
		if key == "" {
			return ErrSeedKeyRequired
		}
		qualified := kind + ":" + key
		if seen[qualified] {
			return fmt.Errorf("l10n: duplicate seed entity %q", qualified)
		}
		seen[qualified] = true

		id := identity.EntityUUID(kind, key)
		req := entities.WriteRequest{
			ID:            &id,
			Kind:          kind,
			Attributes:    item.Attributes,
			Changes:       item.Fields,
			Locale:        opts.Locale,
			AutoTranslate: opts.AutoTranslate,
		}
		if slug := strings.TrimSpace(item.Slug); slug != "" {
			req.Slug = &slug
		}

		if _, err := opts.Entities.Write(ctx, req); err != nil {
			return fmt.Errorf("l10n: seed entity %q: %w", qualified, err)
		}
	}
	return nil
}
