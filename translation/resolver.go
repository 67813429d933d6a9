package translation

import "github.com/goliatone/go-l10n/pkg/interfaces"

// Resolve picks exactly one record to present to a reader: the record whose
// locale equals primary when present, else the fallback-locale record, else
// nil. It never silently defaults to a third locale, never mutates its
// input, and tolerates nil entries.
func Resolve(records []*LocaleRecord, primary, fallback string) *LocaleRecord {
	primary = NormalizeLocale(primary)
	fallback = NormalizeLocale(fallback)

	var fallbackMatch *LocaleRecord
	for _, record := range records {
		if record == nil {
			continue
		}
		switch NormalizeLocale(record.Locale) {
		case primary:
			if primary != "" {
				return record
			}
		case fallback:
			if fallbackMatch == nil {
				fallbackMatch = record
			}
		}
	}
	if fallback == "" {
		return nil
	}
	return fallbackMatch
}

// ResolvedText is the caller-facing read shape for localized fields.
// LocaleUsed is the requested locale, the fallback locale, or nil when no
// record matched either.
type ResolvedText struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LocaleUsed  *string `json:"locale_used"`
}

// ResolveText resolves the candidate records and flattens the winner into
// the read shape. A miss yields null fields rather than an error.
func ResolveText(records []*LocaleRecord, primary, fallback string) ResolvedText {
	record := Resolve(records, primary, fallback)
	if record == nil {
		return ResolvedText{}
	}
	name := record.Name
	used := NormalizeLocale(record.Locale)
	return ResolvedText{
		Name:        &name,
		Description: record.Description,
		LocaleUsed:  &used,
	}
}

// ResolveMeta reports how the resolution was satisfied, in the shape
// consumed by read endpoints.
func ResolveMeta(records []*LocaleRecord, primary, fallback string) interfaces.TranslationMeta {
	primary = NormalizeLocale(primary)
	fallback = NormalizeLocale(fallback)
	meta := interfaces.TranslationMeta{
		RequestedLocale: primary,
		FallbackLocale:  fallback,
	}
	record := Resolve(records, primary, fallback)
	if record == nil {
		meta.MissingRequestedLocale = true
		return meta
	}
	resolved := NormalizeLocale(record.Locale)
	meta.ResolvedLocale = &resolved
	if resolved != primary {
		meta.FallbackUsed = true
		meta.MissingRequestedLocale = true
	}
	return meta
}
