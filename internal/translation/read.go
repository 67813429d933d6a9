package translation

import (
	"context"

	"github.com/goliatone/go-l10n/translation"
	"github.com/google/uuid"
)

// Service binds the sync engine to a repository for callers that do not
// manage their own transaction boundary.
type Service interface {
	Sync(ctx context.Context, parentID uuid.UUID, set translation.ChangeSet, opts translation.SyncOptions) error
	Records(ctx context.Context, parentID uuid.UUID, locales ...string) ([]*translation.LocaleRecord, error)
	Resolve(ctx context.Context, parentID uuid.UUID, primary, fallback string) (translation.ResolvedText, error)
}

type service struct {
	engine *Engine
	store  LocaleRecordRepository
}

// NewService constructs a repository-bound translation service.
func NewService(store LocaleRecordRepository, engine *Engine) Service {
	if engine == nil {
		engine = NewEngine()
	}
	return &service{engine: engine, store: store}
}

func (s *service) Sync(ctx context.Context, parentID uuid.UUID, set translation.ChangeSet, opts translation.SyncOptions) error {
	return s.engine.Sync(ctx, s.store, parentID, set, opts)
}

func (s *service) Records(ctx context.Context, parentID uuid.UUID, locales ...string) ([]*translation.LocaleRecord, error) {
	if parentID == uuid.Nil {
		return nil, translation.ErrParentIDRequired
	}
	return s.store.ListByParent(ctx, parentID, locales...)
}

// Resolve fetches the candidate rows for the requested and fallback locales
// and picks exactly one. Equal locales issue a single-locale query; the
// result is identical either way.
func (s *service) Resolve(ctx context.Context, parentID uuid.UUID, primary, fallback string) (translation.ResolvedText, error) {
	if parentID == uuid.Nil {
		return translation.ResolvedText{}, translation.ErrParentIDRequired
	}
	primary = translation.NormalizeLocale(primary)
	fallback = translation.NormalizeLocale(fallback)

	locales := []string{primary}
	if fallback != "" && fallback != primary {
		locales = append(locales, fallback)
	}
	records, err := s.store.ListByParent(ctx, parentID, locales...)
	if err != nil {
		return translation.ResolvedText{}, err
	}
	return translation.ResolveText(records, primary, fallback), nil
}
