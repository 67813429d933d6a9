package logging

import (
	"context"

	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const (
	rootModule        = "l10n"
	translationModule = "l10n.translation"
	entitiesModule    = "l10n.entities"
	slugsModule       = "l10n.slugs"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// TranslationLogger returns the logger namespace reserved for the sync engine.
func TranslationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, translationModule)
}

// EntitiesLogger returns the logger namespace reserved for entity coordinators.
func EntitiesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, entitiesModule)
}

// SlugsLogger returns the logger namespace reserved for slug allocation.
func SlugsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, slugsModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
