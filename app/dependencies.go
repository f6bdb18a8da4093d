package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/upb/llm-model-router/config"
	"github.com/upb/llm-model-router/internal/observability"
	"github.com/upb/llm-model-router/repositories"
	"github.com/upb/llm-model-router/repositories/memory"
	"github.com/upb/llm-model-router/repositories/postgres"
	"github.com/upb/llm-model-router/services/catalog"
	"github.com/upb/llm-model-router/services/routing"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Repository Factory, nil when the ledger is kept in memory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Selections repositories.SelectionRepository

	// Catalog
	Catalog        *catalog.Store
	CatalogWatcher *catalog.Watcher

	// Services
	Routing *routing.RoutingService
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	if err := deps.initCatalog(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize catalog: %w", err)
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initCatalog loads the candidate catalog and, when asked, starts watching its file
func (d *Dependencies) initCatalog(cfg *config.Config) error {
	var (
		initial *catalog.Catalog
		err     error
	)
	if cfg.Catalog.Path == "" {
		initial, err = catalog.Default()
	} else {
		initial, err = catalog.LoadFile(cfg.Catalog.Path)
	}
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(initial)
	if err != nil {
		return err
	}
	d.Catalog = store
	d.Metrics.SetCatalogSize(initial.Len())

	source := cfg.Catalog.Path
	if source == "" {
		source = "built-in"
	}
	d.Logger.Info("catalog loaded",
		zap.String("source", source),
		zap.Int("candidates", initial.Len()))

	if !cfg.Catalog.Watch || cfg.Catalog.Path == "" {
		return nil
	}

	watcher, err := catalog.NewWatcher(catalog.WatcherConfig{
		Store:         store,
		Path:          cfg.Catalog.Path,
		Logger:        d.Logger,
		Metrics:       d.Metrics,
		DebounceDelay: cfg.Catalog.ReloadDebounce,
	})
	if err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}
	d.CatalogWatcher = watcher
	return nil
}

// initDatabase opens PostgreSQL and creates the ledger schema when a database is configured
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	if !cfg.Database.Enabled() {
		d.Logger.Info("no database configured, keeping selection ledger in memory")
		return nil
	}

	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := factory.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	var repos *repositories.Repositories
	if d.RepoFactory != nil {
		repos = d.RepoFactory.NewRepositories()
	} else {
		repos = memory.NewRepositories()
	}

	d.Selections = repos.Selections
	d.Logger.Info("repositories initialized",
		zap.Bool("persistent", d.RepoFactory != nil))
}

func (d *Dependencies) initServices(cfg *config.Config) {
	d.Routing = routing.NewRoutingService(routing.RoutingConfig{
		DefaultOutputTokens: cfg.Routing.DefaultOutputTokens,
		RecordSelections:    cfg.Routing.RecordSelections,
	}, d.Catalog, d.Selections, d.Metrics, d.Logger)
}

// SQLDB returns the underlying pool for health checks, or nil without a database
func (d *Dependencies) SQLDB() *sql.DB {
	if d.DB == nil {
		return nil
	}
	return d.DB.DB
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.CatalogWatcher != nil {
		if err := d.CatalogWatcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop catalog watcher: %w", err))
		}
		d.CatalogWatcher = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
		d.DB = nil
	}

	_ = d.Logger.Sync()

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
