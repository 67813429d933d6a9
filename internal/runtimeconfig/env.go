package runtimeconfig

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-l10n/translation"
)

// envConfig is the flat environment shape; FromEnv folds it onto Config so
// the rest of the module never sees env tags.
type envConfig struct {
	DefaultLocale    string        `env:"L10N_DEFAULT_LOCALE"`
	FallbackLocale   string        `env:"L10N_FALLBACK_LOCALE"`
	SupportedLocales []string      `env:"L10N_SUPPORTED_LOCALES" envSeparator:","`
	AutoTranslate    bool          `env:"L10N_AUTO_TRANSLATE_ON_CREATE" envDefault:"true"`
	PairFirst        string        `env:"L10N_PAIR_FIRST"`
	PairSecond       string        `env:"L10N_PAIR_SECOND"`
	OracleTimeout    time.Duration `env:"L10N_ORACLE_TIMEOUT"`
	NameMaxLen       int           `env:"L10N_NAME_MAX_LEN"`
	DescMaxLen       int           `env:"L10N_DESCRIPTION_MAX_LEN"`
	SlugMaxLen       int           `env:"L10N_SLUG_MAX_LEN"`
	SlugSeed         string        `env:"L10N_SLUG_SEED"`
	StorageProvider  string        `env:"L10N_STORAGE_PROVIDER"`
	LogLevel         string        `env:"L10N_LOG_LEVEL"`
	LogFormat        string        `env:"L10N_LOG_FORMAT"`
	LogAddSource     bool          `env:"L10N_LOG_ADD_SOURCE"`
}

// FromEnv overlays environment variables on the defaults and validates the
// result. Unset variables keep the default behaviour.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	overlay := envConfig{AutoTranslate: cfg.AutoTranslate.EnabledOnCreate}
	if err := env.Parse(&overlay); err != nil {
		return Config{}, fmt.Errorf("l10n config: parse environment: %w", err)
	}

	if overlay.DefaultLocale != "" {
		cfg.DefaultLocale = translation.NormalizeLocale(overlay.DefaultLocale)
	}
	if overlay.FallbackLocale != "" {
		cfg.FallbackLocale = translation.NormalizeLocale(overlay.FallbackLocale)
	}
	if len(overlay.SupportedLocales) > 0 {
		cfg.SupportedLocales = overlay.SupportedLocales
	}
	cfg.AutoTranslate.EnabledOnCreate = overlay.AutoTranslate
	if overlay.PairFirst != "" || overlay.PairSecond != "" {
		cfg.AutoTranslate.Pair = translation.LocalePair{
			First:  overlay.PairFirst,
			Second: overlay.PairSecond,
		}.Normalize()
	}
	if overlay.OracleTimeout > 0 {
		cfg.AutoTranslate.OracleTimeout = overlay.OracleTimeout
	}
	if overlay.NameMaxLen > 0 {
		cfg.Limits.NameMaxLen = overlay.NameMaxLen
	}
	if overlay.DescMaxLen > 0 {
		cfg.Limits.DescriptionMaxLen = overlay.DescMaxLen
	}
	if overlay.SlugMaxLen > 0 {
		cfg.Slugs.MaxLength = overlay.SlugMaxLen
	}
	if overlay.SlugSeed != "" {
		cfg.Slugs.Seed = overlay.SlugSeed
	}
	if overlay.StorageProvider != "" {
		cfg.Storage.Provider = overlay.StorageProvider
	}
	if overlay.LogLevel != "" {
		cfg.Logging.Level = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		cfg.Logging.Format = overlay.LogFormat
	}
	if overlay.LogAddSource {
		cfg.Logging.AddSource = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
