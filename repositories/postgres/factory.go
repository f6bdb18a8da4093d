package postgres

import (
	"context"

	"github.com/upb/llm-model-router/config"
	"github.com/upb/llm-model-router/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory opens the database and creates a factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{db: db, logger: logger}, nil
}

// NewRepositoryFactoryFromDB creates a factory over an open pool
func NewRepositoryFactoryFromDB(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, logger: logger}
}

// InitSchema creates the ledger schema
func (f *RepositoryFactory) InitSchema(ctx context.Context) error {
	return f.db.InitSchema(ctx)
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Selections: NewSelectionRepository(f.db, f.logger),
	}
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
