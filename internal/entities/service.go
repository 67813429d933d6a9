package entities

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-l10n/entities"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/slugs"
	translationsvc "github.com/goliatone/go-l10n/internal/translation"
	"github.com/goliatone/go-l10n/pkg/interfaces"
	"github.com/goliatone/go-l10n/translation"
	"github.com/google/uuid"
)

// Service coordinates entity writes and localized reads. Every write runs
// the same protocol, atomically: patch the non-localized columns, allocate
// the slug when the kind uses one, and sync the locale records.
type Service interface {
	Write(ctx context.Context, req entities.WriteRequest) (*entities.View, error)
	Get(ctx context.Context, id uuid.UUID, locale, fallback string) (*entities.View, error)
	GetBySlug(ctx context.Context, kind, slug, locale, fallback string) (*entities.View, error)
	List(ctx context.Context, kind, locale, fallback string) ([]*entities.View, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceOption configures the coordinator at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRegistry overrides the kind registry.
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithLocales sets the default authored locale and the read fallback.
func WithLocales(defaultLocale, fallbackLocale string) ServiceOption {
	return func(s *service) {
		if code := translation.NormalizeLocale(defaultLocale); code != "" {
			s.defaultLocale = code
		}
		if code := translation.NormalizeLocale(fallbackLocale); code != "" {
			s.fallbackLocale = code
		}
	}
}

// WithServiceLogger injects the coordinator logger.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSlugOptions forwards options to the slug allocator.
func WithSlugOptions(opts ...slugs.Option) ServiceOption {
	return func(s *service) {
		s.slugOpts = opts
	}
}

// WithAutoTranslateOnCreate sets the default oracle policy for creations.
// Requests can still override it per write.
func WithAutoTranslateOnCreate(enabled bool) ServiceOption {
	return func(s *service) {
		s.autoTranslateCreate = enabled
	}
}

type service struct {
	store    Store
	engine   *translationsvc.Engine
	registry *Registry

	defaultLocale       string
	fallbackLocale      string
	autoTranslateCreate bool

	slugOpts []slugs.Option
	logger   interfaces.Logger
	now      func() time.Time
	id       func() uuid.UUID
}

// NewService constructs the coordinator over the supplied store and engine.
func NewService(store Store, engine *translationsvc.Engine, opts ...ServiceOption) Service {
	s := &service{
		store:               store,
		engine:              engine,
		registry:            DefaultRegistry(),
		defaultLocale:       "id",
		fallbackLocale:      "id",
		autoTranslateCreate: true,
		logger:              logging.NoOp(),
		now:                 time.Now,
		id:                  uuid.New,
	}
	if s.engine == nil {
		s.engine = translationsvc.NewEngine()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write applies a single coordinated write. The translation plan, including
// any oracle network I/O, is computed before the storage transaction opens,
// so the lock window stays short regardless of oracle latency.
func (s *service) Write(ctx context.Context, req entities.WriteRequest) (*entities.View, error) {
	kind, ok := s.registry.Get(req.Kind)
	if !ok {
		if req.Kind == "" {
			return nil, entities.ErrKindRequired
		}
		return nil, entities.ErrKindUnknown
	}

	if req.Slug != nil && !kind.UsesSlug {
		return nil, entities.ErrSlugUnsupported
	}

	changes := req.Changes.Normalize()
	if req.Creating() {
		return s.create(ctx, kind, req, changes, s.id())
	}

	// An explicit ID converges: the row is updated when it exists and
	// created under that ID when it does not. Seed imports depend on this
	// to re-run against deterministic identifiers.
	if _, err := s.store.Entities().GetByID(ctx, *req.ID); err != nil {
		var notFound *entities.NotFoundError
		if errors.As(err, &notFound) {
			return s.create(ctx, kind, req, changes, *req.ID)
		}
		return nil, err
	}
	return s.update(ctx, kind, req, changes)
}

func (s *service) create(ctx context.Context, kind entities.Kind, req entities.WriteRequest, changes translation.ChangeSet, id uuid.UUID) (*entities.View, error) {
	now := s.now()

	plan, err := s.prepare(ctx, id, changes, req.AutoTranslate, true)
	if err != nil {
		return nil, err
	}

	record := &entities.Entity{
		ID:         id,
		Kind:       kind.Name,
		Attributes: applyAttributes(nil, req.Attributes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		if kind.UsesSlug {
			candidate := s.slugCandidate(req, changes)
			allocator := slugs.NewAllocator(tx.Entities(), s.slugOpts...)
			allocated, err := allocator.Allocate(ctx, candidate, kind.Name, id)
			if err != nil {
				return err
			}
			record.Slug = &allocated
		}

		created, err := tx.Entities().Create(ctx, record)
		if err != nil {
			return err
		}
		record = created

		if plan != nil {
			if err := s.engine.Apply(ctx, tx.LocaleRecords(), plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("entity created", "kind", kind.Name, "entity_id", id.String())
	return s.view(ctx, record, s.readLocale(req.Locale), s.fallbackLocale)
}

func (s *service) update(ctx context.Context, kind entities.Kind, req entities.WriteRequest, changes translation.ChangeSet) (*entities.View, error) {
	id := *req.ID

	// Plan preparation happens before the transaction; the row is re-read
	// inside it for the authoritative patch.
	plan, err := s.prepare(ctx, id, changes, req.AutoTranslate, false)
	if err != nil {
		return nil, err
	}

	var record *entities.Entity
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		current, err := tx.Entities().GetByID(ctx, id)
		if err != nil {
			return err
		}

		current.Attributes = applyAttributes(current.Attributes, req.Attributes)
		current.UpdatedAt = s.now()

		// Slugs stay stable across edits; reallocation happens only on an
		// explicit new slug or an explicit regeneration request.
		if kind.UsesSlug && (req.Slug != nil || req.RegenerateSlug) {
			candidate := ""
			if req.Slug != nil {
				candidate = *req.Slug
			} else {
				candidate = s.currentName(ctx, tx, id, changes)
			}
			allocator := slugs.NewAllocator(tx.Entities(), s.slugOpts...)
			allocated, err := allocator.Allocate(ctx, candidate, kind.Name, id)
			if err != nil {
				return err
			}
			current.Slug = &allocated
		}

		updated, err := tx.Entities().Update(ctx, current)
		if err != nil {
			return err
		}
		record = updated

		if plan != nil {
			if err := s.engine.Apply(ctx, tx.LocaleRecords(), plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.view(ctx, record, s.readLocale(req.Locale), s.fallbackLocale)
}

// Get returns the entity merged with exactly one resolved locale.
func (s *service) Get(ctx context.Context, id uuid.UUID, locale, fallback string) (*entities.View, error) {
	if id == uuid.Nil {
		return nil, entities.ErrIDRequired
	}
	record, err := s.store.Entities().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, record, s.readLocale(locale), s.readFallback(fallback))
}

// GetBySlug resolves an entity through its namespace slug.
func (s *service) GetBySlug(ctx context.Context, kind, slug, locale, fallback string) (*entities.View, error) {
	record, err := s.store.Entities().GetBySlug(ctx, kind, slug)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, record, s.readLocale(locale), s.readFallback(fallback))
}

// List returns localized views for every live entity of a kind.
func (s *service) List(ctx context.Context, kind, locale, fallback string) ([]*entities.View, error) {
	records, err := s.store.Entities().List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.View, 0, len(records))
	for _, record := range records {
		view, err := s.view(ctx, record, s.readLocale(locale), s.readFallback(fallback))
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// Delete soft-deletes the entity. Locale records are preserved for audit
// and undelete.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return entities.ErrIDRequired
	}
	if err := s.store.Entities().SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}
	s.logger.Info("entity deleted", "entity_id", id.String())
	return nil
}

func (s *service) prepare(ctx context.Context, parentID uuid.UUID, changes translation.ChangeSet, autoTranslate *bool, creating bool) (*translationsvc.Plan, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	enabled := creating && s.autoTranslateCreate
	if autoTranslate != nil {
		enabled = *autoTranslate
	}
	return s.engine.Prepare(ctx, s.store.LocaleRecords(), parentID, changes, translation.SyncOptions{
		AutoTranslate: enabled,
	})
}

func (s *service) view(ctx context.Context, record *entities.Entity, locale, fallback string) (*entities.View, error) {
	records, err := s.store.LocaleRecords().ListByParent(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	resolved := translation.ResolveText(records, locale, fallback)
	return &entities.View{
		ID:          record.ID,
		Kind:        record.Kind,
		Slug:        record.Slug,
		Attributes:  record.Attributes,
		Name:        resolved.Name,
		Description: resolved.Description,
		LocaleUsed:  resolved.LocaleUsed,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

// slugCandidate derives the slug source text: an explicit slug wins, then
// the authored-locale name, then any supplied name.
func (s *service) slugCandidate(req entities.WriteRequest, changes translation.ChangeSet) string {
	if req.Slug != nil {
		return *req.Slug
	}
	authored := s.readLocale(req.Locale)
	if change, ok := changes[authored]; ok && change.Name != nil {
		return *change.Name
	}
	for _, locale := range changes.Locales() {
		if change := changes[locale]; change.Name != nil {
			return *change.Name
		}
	}
	return ""
}

// currentName finds the freshest name for slug regeneration: the incoming
// change-set first, then the persisted default-locale record.
func (s *service) currentName(ctx context.Context, tx Store, id uuid.UUID, changes translation.ChangeSet) string {
	for _, locale := range changes.Locales() {
		if change := changes[locale]; change.Name != nil {
			return *change.Name
		}
	}
	if record, err := tx.LocaleRecords().GetByParentAndLocale(ctx, id, s.defaultLocale); err == nil {
		return record.Name
	}
	return ""
}

func (s *service) readLocale(locale string) string {
	if code := translation.NormalizeLocale(locale); code != "" {
		return code
	}
	return s.defaultLocale
}

func (s *service) readFallback(fallback string) string {
	if code := translation.NormalizeLocale(fallback); code != "" {
		return code
	}
	return s.fallbackLocale
}

// applyAttributes merges a sparse patch into the stored attributes. A key
// present with a nil value clears it; absent keys are untouched.
func applyAttributes(current, patch map[string]any) map[string]any {
	if len(patch) == 0 {
		return current
	}
	out := make(map[string]any, len(current)+len(patch))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
