package translation

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/pkg/interfaces"
	"github.com/goliatone/go-l10n/translation"
	"github.com/google/uuid"
)

// Storage limits for localized text. Values follow the column constraints
// the schema enforces.
const (
	DefaultNameMaxLen        = 191
	DefaultDescriptionMaxLen = 10_000
)

// PlaceholderName is persisted when a record is created without a usable
// name, so no record ever carries an empty title.
const PlaceholderName = "(no title)"

// Engine implements the locale upsert + auto-translate inference protocol
// for a single write. It holds no storage of its own: callers pass the
// repository, typically bound to their transaction.
type Engine struct {
	pair      translation.LocalePair
	supported []string
	oracle    *Oracle
	logger    interfaces.Logger

	nameMaxLen        int
	descriptionMaxLen int

	now func() time.Time
	id  IDGenerator
}

// IDGenerator produces identifiers for new locale records.
type IDGenerator func() uuid.UUID

// EngineOption configures the engine at construction time.
type EngineOption func(*Engine)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(generator IDGenerator) EngineOption {
	return func(e *Engine) {
		if generator != nil {
			e.id = generator
		}
	}
}

// WithPair sets the locale pair kept in sync by auto-translate inference.
func WithPair(pair translation.LocalePair) EngineOption {
	return func(e *Engine) {
		e.pair = pair.Normalize()
	}
}

// WithSupportedLocales restricts the locales the engine accepts. Empty
// means any locale is accepted.
func WithSupportedLocales(locales []string) EngineOption {
	return func(e *Engine) {
		normalized := make([]string, 0, len(locales))
		for _, locale := range locales {
			if code := translation.NormalizeLocale(locale); code != "" {
				normalized = append(normalized, code)
			}
		}
		e.supported = normalized
	}
}

// WithOracle injects the best-effort translation oracle.
func WithOracle(oracle *Oracle) EngineOption {
	return func(e *Engine) {
		if oracle != nil {
			e.oracle = oracle
		}
	}
}

// WithLogger injects the engine logger.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLimits overrides the storage clamps for name and description.
func WithLimits(nameMaxLen, descriptionMaxLen int) EngineOption {
	return func(e *Engine) {
		if nameMaxLen > 0 {
			e.nameMaxLen = nameMaxLen
		}
		if descriptionMaxLen > 0 {
			e.descriptionMaxLen = descriptionMaxLen
		}
	}
}

// NewEngine constructs a sync engine with the supplied options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		oracle:            NewOracle(nil),
		logger:            logging.NoOp(),
		nameMaxLen:        DefaultNameMaxLen,
		descriptionMaxLen: DefaultDescriptionMaxLen,
		now:               time.Now,
		id:                uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan holds the expanded change-set for a single write: the authored
// locales plus any oracle-inferred paired fields. Splitting planning from
// application keeps the oracle's network I/O outside the caller's storage
// transaction.
type Plan struct {
	ParentID uuid.UUID
	Changes  translation.ChangeSet
	// advisory marks locales whose upsert failures are swallowed rather
	// than propagated. Only oracle-inferred locales land here.
	advisory map[string]bool
}

// Advisory reports whether failures for the locale are advisory.
func (p *Plan) Advisory(locale string) bool {
	return p != nil && p.advisory[translation.NormalizeLocale(locale)]
}

// Prepare validates the change-set and computes the expanded plan, invoking
// the oracle when auto-translate inference fires. The store is used for
// reads only.
func (e *Engine) Prepare(ctx context.Context, store LocaleRecordRepository, parentID uuid.UUID, set translation.ChangeSet, opts translation.SyncOptions) (*Plan, error) {
	if parentID == uuid.Nil {
		return nil, translation.ErrParentIDRequired
	}
	set = set.Normalize()
	locales := set.Locales()
	if len(locales) == 0 {
		return nil, translation.ErrEmptyChangeSet
	}
	for _, locale := range locales {
		if !e.supports(locale) {
			return nil, &translation.UnsupportedLocaleError{Locale: locale, Supported: e.supported}
		}
	}

	plan := &Plan{
		ParentID: parentID,
		Changes:  set,
		advisory: map[string]bool{},
	}

	pair := opts.Pair.Normalize()
	if !pair.Valid() {
		pair = e.pair
	}
	if !opts.AutoTranslate || !pair.Valid() {
		return plan, nil
	}

	source, target, ok := inferDirection(set, pair)
	if !ok {
		// Both sides supplied, or neither: explicit input always wins.
		return plan, nil
	}

	inferred := e.inferPairedChange(ctx, store, parentID, source, target, set[source])
	if !inferred.Touched() {
		return plan, nil
	}
	plan.Changes[target] = inferred
	plan.advisory[target] = true
	return plan, nil
}

// Apply upserts every locale in the plan, inside whatever transaction the
// supplied store is bound to. Authored-locale failures propagate; advisory
// (oracle-inferred) failures are logged and swallowed.
func (e *Engine) Apply(ctx context.Context, store LocaleRecordRepository, plan *Plan) error {
	if plan == nil || plan.ParentID == uuid.Nil {
		return translation.ErrParentIDRequired
	}
	now := e.now()
	for _, locale := range plan.Changes.Locales() {
		if _, err := e.upsertLocale(ctx, store, plan.ParentID, locale, plan.Changes[locale], now); err != nil {
			if plan.Advisory(locale) {
				e.logger.Warn("paired locale upsert skipped",
					"parent_id", plan.ParentID.String(),
					"locale", locale,
					"error", err,
				)
				continue
			}
			return err
		}
	}
	return nil
}

// Sync runs Prepare and Apply back to back against the same store. Callers
// that manage their own transaction boundary should call the two phases
// separately so the oracle call stays outside the transaction.
func (e *Engine) Sync(ctx context.Context, store LocaleRecordRepository, parentID uuid.UUID, set translation.ChangeSet, opts translation.SyncOptions) error {
	plan, err := e.Prepare(ctx, store, parentID, set, opts)
	if err != nil {
		return err
	}
	return e.Apply(ctx, store, plan)
}

// inferPairedChange computes the oracle-translated fields for the target
// locale. The effective source value is the supplied value when present,
// else the persisted value, so translating a title never blanks an
// untouched description.
func (e *Engine) inferPairedChange(ctx context.Context, store LocaleRecordRepository, parentID uuid.UUID, source, target string, change translation.FieldChange) translation.FieldChange {
	var persisted *translation.LocaleRecord
	if record, err := store.GetByParentAndLocale(ctx, parentID, source); err == nil {
		persisted = record
	}

	effectiveName := ""
	if change.Name != nil {
		effectiveName = *change.Name
	} else if persisted != nil {
		effectiveName = persisted.Name
	}

	effectiveDescription := ""
	if change.Description != nil {
		effectiveDescription = *change.Description
	} else if persisted != nil && persisted.Description != nil {
		effectiveDescription = *persisted.Description
	}

	inferred := translation.FieldChange{}
	if text, ok := e.oracle.Translate(ctx, effectiveName, source, target); ok {
		clamped := clampRunes(text, e.nameMaxLen)
		inferred.Name = &clamped
	}
	if text, ok := e.oracle.Translate(ctx, effectiveDescription, source, target); ok {
		clamped := clampRunes(text, e.descriptionMaxLen)
		inferred.Description = &clamped
	}
	return inferred
}

// upsertLocale patches only the provided fields on an existing record, or
// creates the record, defaulting the name to a placeholder so a row never
// persists with an empty title.
func (e *Engine) upsertLocale(ctx context.Context, store LocaleRecordRepository, parentID uuid.UUID, locale string, change translation.FieldChange, now time.Time) (*translation.LocaleRecord, error) {
	existing, err := store.GetByParentAndLocale(ctx, parentID, locale)
	if err != nil {
		var notFound *translation.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		existing = nil
	}

	if existing == nil {
		record := &translation.LocaleRecord{
			ID:        e.id(),
			ParentID:  parentID,
			Locale:    locale,
			CreatedAt: now,
			UpdatedAt: now,
		}
		name := ""
		if change.Name != nil {
			name = *change.Name
		}
		if isBlank(name) {
			name = PlaceholderName
		}
		record.Name = clampRunes(name, e.nameMaxLen)
		if change.Description != nil {
			description := clampRunes(*change.Description, e.descriptionMaxLen)
			record.Description = &description
		}
		return store.Upsert(ctx, record)
	}

	if change.Name != nil {
		existing.Name = clampRunes(*change.Name, e.nameMaxLen)
	}
	if change.Description != nil {
		description := clampRunes(*change.Description, e.descriptionMaxLen)
		existing.Description = &description
	}
	existing.UpdatedAt = now
	return store.Upsert(ctx, existing)
}

func (e *Engine) supports(locale string) bool {
	if len(e.supported) == 0 {
		return true
	}
	for _, supported := range e.supported {
		if supported == locale {
			return true
		}
	}
	return false
}

// inferDirection decides whether and which way auto-translate fires: the
// change-set must touch exactly one side of the pair and leave the other
// entirely untouched.
func inferDirection(set translation.ChangeSet, pair translation.LocalePair) (source, target string, ok bool) {
	p := pair.Normalize()
	firstTouched := set.Touches(p.First)
	secondTouched := set.Touches(p.Second)
	switch {
	case firstTouched && !secondTouched:
		return p.First, p.Second, true
	case secondTouched && !firstTouched:
		return p.Second, p.First, true
	default:
		return "", "", false
	}
}

func clampRunes(value string, max int) string {
	if max <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

func isBlank(value string) bool {
	for _, r := range value {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
