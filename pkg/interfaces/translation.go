package interfaces

import "context"

// Translator is the external machine-translation oracle. Implementations are
// best-effort collaborators: callers never retry, and any error simply leaves
// the paired locale untouched. Implementations must not be invoked with
// empty or whitespace-only text; the runtime guards against that before
// calling.
type Translator interface {
	Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error)
}

// TranslatorFunc adapts a plain function to the Translator contract.
type TranslatorFunc func(ctx context.Context, text, sourceLocale, targetLocale string) (string, error)

// Translate implements Translator.
func (f TranslatorFunc) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	return f(ctx, text, sourceLocale, targetLocale)
}

// TranslationMeta describes how a localized read was resolved.
type TranslationMeta struct {
	RequestedLocale        string  `json:"requested_locale"`
	ResolvedLocale         *string `json:"resolved_locale"`
	FallbackLocale         string  `json:"fallback_locale"`
	FallbackUsed           bool    `json:"fallback_used"`
	MissingRequestedLocale bool    `json:"missing_requested_locale"`
}
