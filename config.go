package l10n

import "github.com/goliatone/go-l10n/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired     = runtimeconfig.ErrDefaultLocaleRequired
	ErrDefaultLocaleUnsupported  = runtimeconfig.ErrDefaultLocaleUnsupported
	ErrFallbackLocaleUnsupported = runtimeconfig.ErrFallbackLocaleUnsupported
	ErrPairLocaleUnsupported     = runtimeconfig.ErrPairLocaleUnsupported
	ErrPairIdentical             = runtimeconfig.ErrPairIdentical
	ErrOracleTimeoutInvalid      = runtimeconfig.ErrOracleTimeoutInvalid
	ErrNameLimitInvalid          = runtimeconfig.ErrNameLimitInvalid
	ErrDescriptionLimitInvalid   = runtimeconfig.ErrDescriptionLimitInvalid
	ErrSlugLimitInvalid          = runtimeconfig.ErrSlugLimitInvalid
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config              = runtimeconfig.Config
	AutoTranslateConfig = runtimeconfig.AutoTranslateConfig
	LimitsConfig        = runtimeconfig.LimitsConfig
	SlugConfig          = runtimeconfig.SlugConfig
	StorageConfig       = runtimeconfig.StorageConfig
	LoggingConfig       = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv overlays L10N_* environment variables on the defaults.
func ConfigFromEnv() (Config, error) {
	return runtimeconfig.FromEnv()
}
