package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/upb/llm-model-router/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Wrap adapts an existing pool, e.g. one opened by sqlmock in tests
func Wrap(db *sql.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: db, logger: logger}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check if we can query
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema creates the selection ledger table and its indexes
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS selection_records (
			id UUID PRIMARY KEY,
			conversation_id VARCHAR(255),
			request_id VARCHAR(255),
			candidate_id VARCHAR(100) NOT NULL,
			provider VARCHAR(100) NOT NULL,
			task_type VARCHAR(50) NOT NULL,
			complexity VARCHAR(50) NOT NULL,
			confidence INTEGER NOT NULL,
			estimated_cost DECIMAL(12, 6) NOT NULL DEFAULT 0,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			cost DECIMAL(12, 6) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_selection_records_conversation_id ON selection_records(conversation_id);
		CREATE INDEX IF NOT EXISTS idx_selection_records_candidate_id ON selection_records(candidate_id);
		CREATE INDEX IF NOT EXISTS idx_selection_records_created_at ON selection_records(created_at);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
