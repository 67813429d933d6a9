package l10n

import (
	"github.com/goliatone/go-l10n/internal/di"
	entitysvc "github.com/goliatone/go-l10n/internal/entities"
	translationsvc "github.com/goliatone/go-l10n/internal/translation"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// EntityService exports the write coordinator contract for consumers of the l10n package.
type EntityService = entitysvc.Service

// TranslationService exports the locale-record read/sync contract.
type TranslationService = translationsvc.Service

// KindRegistry exports the entity kind registry.
type KindRegistry = entitysvc.Registry

// Translator exports the machine-translation backend contract.
type Translator = interfaces.Translator

// TranslatorFunc adapts a plain function into a Translator.
type TranslatorFunc = interfaces.TranslatorFunc

// Module represents the top level localization runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an l10n module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Entities returns the configured write coordinator.
func (m *Module) Entities() EntityService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.EntityService()
}

// Translations returns the locale-record read/sync service.
func (m *Module) Translations() TranslationService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.TranslationService()
}

// Kinds returns the registry of writable entity kinds.
func (m *Module) Kinds() *KindRegistry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.KindRegistry()
}

// LoggerProvider returns the provider backing the module's loggers.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LoggerProvider()
}
