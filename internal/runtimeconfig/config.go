package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-l10n/translation"
)

// ErrDefaultLocaleRequired indicates the module has no authoring locale.
var ErrDefaultLocaleRequired = errors.New("l10n config: default locale is required")

// ErrFallbackLocaleUnsupported ensures the fallback is a supported locale.
var ErrFallbackLocaleUnsupported = errors.New("l10n config: fallback locale must be listed in supported locales")

// ErrDefaultLocaleUnsupported ensures the default is a supported locale.
var ErrDefaultLocaleUnsupported = errors.New("l10n config: default locale must be listed in supported locales")

// ErrPairLocaleUnsupported ensures the auto-translate pair stays inside the supported set.
var ErrPairLocaleUnsupported = errors.New("l10n config: translation pair locales must be listed in supported locales")
var ErrPairIdentical = errors.New("l10n config: translation pair locales must differ")
var ErrOracleTimeoutInvalid = errors.New("l10n config: oracle timeout must be zero or positive")
var ErrNameLimitInvalid = errors.New("l10n config: name length limit must be positive")
var ErrDescriptionLimitInvalid = errors.New("l10n config: description length limit must be positive")
var ErrSlugLimitInvalid = errors.New("l10n config: slug length limit must be positive")
var ErrLoggingLevelInvalid = errors.New("l10n config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("l10n config: logging format is invalid")

// Config aggregates locale policy and adapter bindings for the module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	DefaultLocale    string
	FallbackLocale   string
	SupportedLocales []string
	AutoTranslate    AutoTranslateConfig
	Limits           LimitsConfig
	Slugs            SlugConfig
	Storage          StorageConfig
	Logging          LoggingConfig
}

// AutoTranslateConfig controls the machine-translation policy.
type AutoTranslateConfig struct {
	// EnabledOnCreate turns the oracle on for creations; updates stay
	// manual unless the caller opts in per request.
	EnabledOnCreate bool
	// Pair names the two locales the oracle translates between.
	Pair translation.LocalePair
	// OracleTimeout bounds a single oracle call. Zero uses the engine default.
	OracleTimeout time.Duration
}

// LimitsConfig caps persisted field lengths, counted in runes.
type LimitsConfig struct {
	NameMaxLen        int
	DescriptionMaxLen int
}

// SlugConfig tunes slug allocation.
type SlugConfig struct {
	MaxLength int
	Seed      string
}

// StorageConfig selects the storage binding. Provider picks the bun
// dialect for raw database handles: "sqlite" (default) or "postgres".
type StorageConfig struct {
	Provider string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the bilingual defaults the module ships with.
func DefaultConfig() Config {
	return Config{
		DefaultLocale:    "id",
		FallbackLocale:   "id",
		SupportedLocales: []string{"id", "en"},
		AutoTranslate: AutoTranslateConfig{
			EnabledOnCreate: true,
			Pair:            translation.LocalePair{First: "id", Second: "en"},
			OracleTimeout:   10 * time.Second,
		},
		Limits: LimitsConfig{
			NameMaxLen:        191,
			DescriptionMaxLen: 10_000,
		},
		Slugs: SlugConfig{
			MaxLength: 100,
			Seed:      "item",
		},
		Storage: StorageConfig{
			Provider: "sqlite",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	defaultLocale := translation.NormalizeLocale(cfg.DefaultLocale)
	if defaultLocale == "" {
		return ErrDefaultLocaleRequired
	}
	supported := cfg.supportedSet()
	if len(supported) > 0 {
		if !supported[defaultLocale] {
			return fmt.Errorf("%w: %s", ErrDefaultLocaleUnsupported, defaultLocale)
		}
		if fallback := translation.NormalizeLocale(cfg.FallbackLocale); fallback != "" && !supported[fallback] {
			return fmt.Errorf("%w: %s", ErrFallbackLocaleUnsupported, fallback)
		}
	}
	pair := cfg.AutoTranslate.Pair.Normalize()
	if pair.First != "" && pair.First == pair.Second {
		return ErrPairIdentical
	}
	if pair.Valid() && len(supported) > 0 && (!supported[pair.First] || !supported[pair.Second]) {
		return fmt.Errorf("%w: %s/%s", ErrPairLocaleUnsupported, pair.First, pair.Second)
	}
	if cfg.AutoTranslate.OracleTimeout < 0 {
		return ErrOracleTimeoutInvalid
	}
	if cfg.Limits.NameMaxLen < 0 {
		return ErrNameLimitInvalid
	}
	if cfg.Limits.DescriptionMaxLen < 0 {
		return ErrDescriptionLimitInvalid
	}
	if cfg.Slugs.MaxLength < 0 {
		return ErrSlugLimitInvalid
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func (cfg Config) supportedSet() map[string]bool {
	set := make(map[string]bool, len(cfg.SupportedLocales))
	for _, locale := range cfg.SupportedLocales {
		if code := translation.NormalizeLocale(locale); code != "" {
			set[code] = true
		}
	}
	return set
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	}
	return false
}
