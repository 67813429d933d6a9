package translation

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxLocaleLength bounds normalized locale tags. Region variants like
// "en-us" fit; anything longer is truncated defensively.
const MaxLocaleLength = 5

// LocaleRecord is one localized copy of a parent entity's text fields.
// The pair (parent_id, locale) is unique and enforced at the schema level.
type LocaleRecord struct {
	bun.BaseModel `bun:"table:locale_records,alias:lr"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ParentID    uuid.UUID `bun:"parent_id,notnull,type:uuid" json:"parent_id"`
	Locale      string    `bun:"locale,notnull" json:"locale"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description *string   `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// FieldChange carries the localized fields supplied for a single locale.
// A nil pointer means the field was absent from the request and must never
// be overwritten; presence in the change-set, not truthiness, is the signal.
type FieldChange struct {
	Name        *string
	Description *string
}

// Touched reports whether the change carries at least one supplied field.
func (c FieldChange) Touched() bool {
	return c.Name != nil || c.Description != nil
}

// ChangeSet is the sparse, locale-keyed input to a single write.
type ChangeSet map[string]FieldChange

// Locales returns the touched locale codes in deterministic order.
func (cs ChangeSet) Locales() []string {
	out := make([]string, 0, len(cs))
	for locale, change := range cs {
		if !change.Touched() {
			continue
		}
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Touches reports whether the change-set carries any field for the locale.
func (cs ChangeSet) Touches(locale string) bool {
	change, ok := cs[NormalizeLocale(locale)]
	return ok && change.Touched()
}

// Normalize returns a copy of the change-set with normalized locale keys,
// dropping locales that carry no fields.
func (cs ChangeSet) Normalize() ChangeSet {
	out := make(ChangeSet, len(cs))
	for locale, change := range cs {
		code := NormalizeLocale(locale)
		if code == "" || !change.Touched() {
			continue
		}
		merged := out[code]
		if change.Name != nil {
			merged.Name = change.Name
		}
		if change.Description != nil {
			merged.Description = change.Description
		}
		out[code] = merged
	}
	return out
}

// LocalePair identifies the two locales kept in sync by auto-translate
// inference. The pairing is symmetric: direction is decided per write from
// which side the change-set touches.
type LocalePair struct {
	First  string
	Second string
}

// Normalize lowercases and trims both sides of the pair.
func (p LocalePair) Normalize() LocalePair {
	return LocalePair{
		First:  NormalizeLocale(p.First),
		Second: NormalizeLocale(p.Second),
	}
}

// Valid reports whether the pair names two distinct locales.
func (p LocalePair) Valid() bool {
	n := p.Normalize()
	return n.First != "" && n.Second != "" && n.First != n.Second
}

// Counterpart returns the opposite side of the pair for the given locale.
func (p LocalePair) Counterpart(locale string) (string, bool) {
	n := p.Normalize()
	switch NormalizeLocale(locale) {
	case n.First:
		return n.Second, true
	case n.Second:
		return n.First, true
	default:
		return "", false
	}
}

// SyncOptions controls a single sync invocation.
type SyncOptions struct {
	// AutoTranslate enables paired-locale inference for this write.
	AutoTranslate bool
	// Pair overrides the engine's configured locale pair when both sides
	// are set.
	Pair LocalePair
}

// NormalizeLocale lowercases, trims, and truncates a locale tag.
func NormalizeLocale(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) > MaxLocaleLength {
		code = code[:MaxLocaleLength]
	}
	return code
}
