// Package app wires the application together
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"contentagent.app/api"
	"contentagent.app/cache"
	"contentagent.app/config"
	"contentagent.app/database"
	"contentagent.app/models"
	"contentagent.app/providers"
	"contentagent.app/repository"
	"contentagent.app/service"
)

// Keys written by this application are scoped so a shared Redis can host
// other tools without Clear wiping their entries.
const cacheNamespace = "contentagent:"

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	cache     *cache.TieredCache
	generator *service.Generator
	history   *repository.GenerationRepository
	server    *api.Server
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	app.initializeCache()

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...", "path", app.config.Database.Path)

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

// initializeCache builds the tiered cache. The local tier is always present
// when caching is enabled; the shared tier only when Redis is configured and
// reachable. A dead Redis degrades to local-only rather than failing startup.
func (app *Application) initializeCache() {
	tiered, err := BuildCache(&app.config.Cache)
	if err != nil {
		slog.Error("Failed to initialize cache, continuing without one", "error", err)
		return
	}
	app.cache = tiered
}

// BuildCache assembles the tiered cache from configuration. It returns nil
// without error when caching is disabled.
func BuildCache(cfg *config.CacheConfig) (*cache.TieredCache, error) {
	if !cfg.Enabled {
		slog.Info("Caching disabled by configuration")
		return nil, nil
	}

	memory, err := cache.NewMemoryStore(cfg.MaxBytes)
	if err != nil {
		return nil, err
	}
	local := cache.NewInstrumentedStore(memory, "local")

	var shared cache.Store
	if cfg.RedisEnabled() {
		redisStore, err := cache.NewRedisStore(&cache.RedisStoreConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			Namespace:    cacheNamespace,
		})
		if err != nil {
			slog.Warn("Redis unavailable, running with local cache only", "addr", cfg.RedisAddr, "error", err)
		} else {
			shared = cache.NewInstrumentedStore(redisStore, "redis")
			slog.Info("Shared cache tier connected", "addr", cfg.RedisAddr)
		}
	}

	return cache.NewTieredCache(local, shared, cacheNamespace,
		time.Duration(cfg.DefaultTTLSeconds)*time.Second)
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	searchManager, err := providers.NewSearchManager(&app.config.Search)
	if err != nil {
		return fmt.Errorf("create search manager: %w", err)
	}

	var searchService providers.SearchService = searchManager
	if app.cache != nil {
		searchService = providers.NewSearchCacheProxy(searchManager, app.cache,
			time.Duration(app.config.Search.CacheTTLSeconds)*time.Second)
	}

	llm, err := service.NewGeminiClient(&app.config.Gemini)
	if err != nil {
		return fmt.Errorf("create generation client: %w", err)
	}

	app.generator = service.NewGenerator(
		searchService,
		llm,
		app.cache,
		service.NewMarkdownWriter(app.config.Output.Dir),
		&app.config.Gemini,
		&app.config.Output,
	)

	app.history = repository.NewGenerationRepository(app.db)
	app.server = api.NewServer(app.config, app.generator, app.history)

	slog.Info("Services initialized successfully")
	return nil
}

// Start starts the HTTP server
func (app *Application) Start() error {
	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// RunOnce generates content for a single topic and records the run. Used by
// the command line path.
func (app *Application) RunOnce(ctx context.Context, topic string) (string, error) {
	started := time.Now()

	pkg, path, err := app.generator.Generate(ctx, topic)
	if err != nil {
		return "", err
	}

	generation := &models.Generation{
		Topic:       pkg.Topic,
		OutputPath:  path,
		WordCount:   pkg.WordCount,
		SourceCount: len(pkg.Sources),
		DurationMS:  time.Since(started).Milliseconds(),
	}
	if err := app.history.Create(generation); err != nil {
		slog.Warn("failed to record generation", "error", err, "topic", pkg.Topic)
	}

	return path, nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			slog.Warn("Error closing cache", "error", err)
		}
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
