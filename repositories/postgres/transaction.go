package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// transactionContextKey is the context key for storing transactions
type transactionContextKey struct{}

// TransactionManager runs functions inside a database transaction
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *DB, logger *zap.Logger) *TransactionManager {
	return &TransactionManager{
		db:     db,
		logger: logger,
	}
}

// InTransaction executes fn within a transaction.
// It commits if fn succeeds and rolls back on error.
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, transactionContextKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			tm.logger.Error("failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("original_error", err),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Executor is an interface that can execute queries (both *sql.DB and *sql.Tx)
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none
func GetExecutor(ctx context.Context, db *DB) Executor {
	if tx, ok := ctx.Value(transactionContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}
