package translation

import (
	"strings"
)

// ParseOptions controls how a sparse request form maps onto a ChangeSet.
type ParseOptions struct {
	// Locale is the authored locale for bare field names ("name",
	// "description"). Empty falls back to DefaultLocale.
	Locale string
	// DefaultLocale is the configured default authored locale.
	DefaultLocale string
	// SupportedLocales restricts accepted locale suffixes when non-empty.
	SupportedLocales []string
}

func (o ParseOptions) authoredLocale() string {
	if code := NormalizeLocale(o.Locale); code != "" {
		return code
	}
	return NormalizeLocale(o.DefaultLocale)
}

func (o ParseOptions) supports(locale string) bool {
	if len(o.SupportedLocales) == 0 {
		return true
	}
	for _, supported := range o.SupportedLocales {
		if NormalizeLocale(supported) == locale {
			return true
		}
	}
	return false
}

// ParseChangeSet converts the caller-facing sparse form into a ChangeSet.
// Keys follow the {field}_{locale} convention (name_id, description_en);
// "title" is accepted as an alias for "name". Bare field names apply to the
// authored locale. Only keys present in the map count as changed; values are
// taken verbatim, including empty strings.
func ParseChangeSet(fields map[string]string, opts ParseOptions) (ChangeSet, error) {
	set := ChangeSet{}
	for key, value := range fields {
		field, locale, ok := splitFieldKey(key)
		if !ok {
			continue
		}
		if locale == "" {
			locale = opts.authoredLocale()
		}
		if locale == "" {
			return nil, ErrLocaleRequired
		}
		if !opts.supports(locale) {
			return nil, &UnsupportedLocaleError{Locale: locale, Supported: opts.SupportedLocales}
		}

		change := set[locale]
		v := value
		switch field {
		case "name":
			change.Name = &v
		case "description":
			change.Description = &v
		}
		set[locale] = change
	}
	return set.Normalize(), nil
}

// ParseAutoTranslate normalizes the string form of the auto-translate flag.
// Empty input yields the supplied default; anything else must parse as a
// boolean.
func ParseAutoTranslate(raw string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return def, nil
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return def, ErrAutoTranslateFlag
	}
}

// splitFieldKey breaks a request key into a canonical field name and an
// optional locale suffix. Unknown fields report ok=false and are skipped by
// the parser so non-localized columns can travel in the same form.
func splitFieldKey(key string) (field, locale string, ok bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	base := key
	if idx := strings.LastIndex(key, "_"); idx > 0 {
		base = key[:idx]
		locale = NormalizeLocale(key[idx+1:])
	}
	switch canonicalField(base) {
	case "name":
		return "name", locale, true
	case "description":
		return "description", locale, true
	}
	// No suffix at all: the whole key may be the field name.
	if canonical := canonicalField(key); canonical != "" {
		return canonical, "", true
	}
	return "", "", false
}

func canonicalField(name string) string {
	switch name {
	case "name", "title":
		return "name"
	case "description":
		return "description"
	default:
		return ""
	}
}
