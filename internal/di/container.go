package di

import (
	"database/sql"
	"strings"

	entitysvc "github.com/goliatone/go-l10n/internal/entities"
	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/logging/gologger"
	"github.com/goliatone/go-l10n/internal/runtimeconfig"
	"github.com/goliatone/go-l10n/internal/slugs"
	translationsvc "github.com/goliatone/go-l10n/internal/translation"
	"github.com/goliatone/go-l10n/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Container wires module dependencies. Without a database it falls back to
// the in-memory store so the module stays embeddable in tests and previews.
type Container struct {
	Config runtimeconfig.Config

	bunDB          *bun.DB
	sqlDB          *sql.DB
	cacheService   repocache.CacheService
	keySerializer  repocache.KeySerializer
	translator     interfaces.Translator
	loggerProvider interfaces.LoggerProvider

	store     entitysvc.Store
	registry  *entitysvc.Registry
	engine    *translationsvc.Engine
	entitySvc entitysvc.Service
	readSvc   translationsvc.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the module to a bun database handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB binds a raw database handle. The bun dialect follows
// Config.Storage.Provider; WithBunDB wins when both are supplied.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithCache wires go-repository-cache into identifier reads.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithTranslator installs the machine-translation backend.
func WithTranslator(t interfaces.Translator) Option {
	return func(c *Container) {
		c.translator = t
	}
}

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithStore overrides the storage binding entirely.
func WithStore(store entitysvc.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithKindRegistry overrides the default kind registry.
func WithKindRegistry(registry *entitysvc.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithEntityService overrides the default write coordinator binding.
func WithEntityService(svc entitysvc.Service) Option {
	return func(c *Container) {
		c.entitySvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		registry: entitysvc.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if c.bunDB == nil && c.sqlDB != nil {
		switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
		case "postgres", "pg":
			c.bunDB = bun.NewDB(c.sqlDB, pgdialect.New())
		default:
			c.bunDB = bun.NewDB(c.sqlDB, sqlitedialect.New())
		}
	}

	if c.store == nil {
		if c.bunDB != nil {
			storeOpts := []entitysvc.BunStoreOption{}
			if c.cacheService != nil && c.keySerializer != nil {
				storeOpts = append(storeOpts, entitysvc.WithStoreCache(c.cacheService, c.keySerializer))
			}
			c.store = entitysvc.NewBunStore(c.bunDB, storeOpts...)
		} else {
			c.store = entitysvc.NewMemoryStore()
		}
	}

	engineOpts := []translationsvc.EngineOption{
		translationsvc.WithPair(cfg.AutoTranslate.Pair),
		translationsvc.WithSupportedLocales(cfg.SupportedLocales),
		translationsvc.WithLimits(cfg.Limits.NameMaxLen, cfg.Limits.DescriptionMaxLen),
		translationsvc.WithLogger(logging.TranslationLogger(c.loggerProvider)),
	}
	if c.translator != nil {
		oracleOpts := []translationsvc.OracleOption{
			translationsvc.WithOracleLogger(logging.TranslationLogger(c.loggerProvider)),
		}
		if cfg.AutoTranslate.OracleTimeout > 0 {
			oracleOpts = append(oracleOpts, translationsvc.WithOracleTimeout(cfg.AutoTranslate.OracleTimeout))
		}
		engineOpts = append(engineOpts, translationsvc.WithOracle(translationsvc.NewOracle(c.translator, oracleOpts...)))
	}
	c.engine = translationsvc.NewEngine(engineOpts...)

	if c.entitySvc == nil {
		c.entitySvc = entitysvc.NewService(c.store, c.engine,
			entitysvc.WithRegistry(c.registry),
			entitysvc.WithLocales(cfg.DefaultLocale, cfg.FallbackLocale),
			entitysvc.WithServiceLogger(logging.EntitiesLogger(c.loggerProvider)),
			entitysvc.WithAutoTranslateOnCreate(cfg.AutoTranslate.EnabledOnCreate),
			entitysvc.WithSlugOptions(
				slugs.WithMaxLength(cfg.Slugs.MaxLength),
				slugs.WithSeed(cfg.Slugs.Seed),
				slugs.WithLogger(logging.SlugsLogger(c.loggerProvider)),
			),
		)
	}

	c.readSvc = translationsvc.NewService(c.store.LocaleRecords(), c.engine)

	return c, nil
}

// EntityService returns the configured write coordinator.
func (c *Container) EntityService() entitysvc.Service {
	return c.entitySvc
}

// TranslationService returns the locale-record read/sync service.
func (c *Container) TranslationService() translationsvc.Service {
	return c.readSvc
}

// Engine returns the translation sync engine.
func (c *Container) Engine() *translationsvc.Engine {
	return c.engine
}

// Store returns the configured storage binding.
func (c *Container) Store() entitysvc.Store {
	return c.store
}

// KindRegistry returns the configured kind registry.
func (c *Container) KindRegistry() *entitysvc.Registry {
	return c.registry
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}
