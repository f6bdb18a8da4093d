package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/repositories"
	"go.uber.org/zap"
)

const selectionColumns = `id, conversation_id, request_id, candidate_id, provider, task_type,
		       complexity, confidence, estimated_cost, input_tokens, output_tokens, cost,
		       created_at, completed_at`

// SelectionRepository implements the repositories.SelectionRepository interface
type SelectionRepository struct {
	db     *DB
	tm     *TransactionManager
	logger *zap.Logger
}

// NewSelectionRepository creates a new selection repository
func NewSelectionRepository(db *DB, logger *zap.Logger) repositories.SelectionRepository {
	return &SelectionRepository{
		db:     db,
		tm:     NewTransactionManager(db, logger),
		logger: logger,
	}
}

// Insert stores a new selection record
func (r *SelectionRepository) Insert(ctx context.Context, rec *models.SelectionRecord) error {
	query := `
		INSERT INTO selection_records (
			id, conversation_id, request_id, candidate_id, provider, task_type,
			complexity, confidence, estimated_cost, input_tokens, output_tokens, cost,
			created_at, completed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		rec.ID,
		rec.ConversationID,
		rec.RequestID,
		rec.CandidateID,
		rec.Provider,
		rec.TaskType,
		rec.Complexity,
		rec.Confidence,
		rec.EstimatedCost,
		rec.InputTokens,
		rec.OutputTokens,
		rec.Cost,
		rec.CreatedAt,
		rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert selection record: %w", err)
	}

	r.logger.Debug("selection record created",
		zap.String("id", rec.ID.String()),
		zap.String("candidate_id", rec.CandidateID))
	return nil
}

// UpdateUsage locks the record, rejects a second report and stores the usage
func (r *SelectionRepository) UpdateUsage(ctx context.Context, id uuid.UUID, usage repositories.Usage) (*models.SelectionRecord, error) {
	var updated *models.SelectionRecord

	err := r.tm.InTransaction(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.db)

		var completedAt sql.NullTime
		err := executor.QueryRowContext(ctx,
			`SELECT completed_at FROM selection_records WHERE id = $1 FOR UPDATE`, id).
			Scan(&completedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repositories.ErrNotFound
			}
			return fmt.Errorf("failed to lock selection record: %w", err)
		}
		if completedAt.Valid {
			return repositories.ErrAlreadyCompleted
		}

		query := `
			UPDATE selection_records
			SET input_tokens = $2, output_tokens = $3, cost = $4, completed_at = $5
			WHERE id = $1
			RETURNING ` + selectionColumns

		rec, err := scanSelection(executor.QueryRowContext(ctx, query,
			id, usage.InputTokens, usage.OutputTokens, usage.Cost, usage.CompletedAt))
		if err != nil {
			return fmt.Errorf("failed to update selection usage: %w", err)
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("selection usage recorded",
		zap.String("id", id.String()),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens))
	return updated, nil
}

// GetByID retrieves a selection record by ID
func (r *SelectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SelectionRecord, error) {
	query := `SELECT ` + selectionColumns + `
		FROM selection_records
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	rec, err := scanSelection(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get selection record: %w", err)
	}
	return rec, nil
}

// ListByConversation retrieves selection records for a conversation, oldest first
func (r *SelectionRepository) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*models.SelectionRecord, error) {
	query := `SELECT ` + selectionColumns + `
		FROM selection_records
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list selection records: %w", err)
	}
	defer rows.Close()

	records := []*models.SelectionRecord{}
	for rows.Next() {
		rec, err := scanSelection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selection record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selection records: %w", err)
	}

	return records, nil
}

// TotalsByConversation aggregates recorded usage for a conversation
func (r *SelectionRepository) TotalsByConversation(ctx context.Context, conversationID string) (*models.UsageTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(SUM(cost), 0)
		FROM selection_records
		WHERE conversation_id = $1
	`

	totals := &models.UsageTotals{ConversationID: conversationID}
	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, conversationID).Scan(
		&totals.Selections,
		&totals.InputTokens,
		&totals.OutputTokens,
		&totals.TotalCost,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage: %w", err)
	}
	totals.TotalTokens = totals.InputTokens + totals.OutputTokens

	return totals, nil
}

// HealthCheck delegates to the connection pool
func (r *SelectionRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSelection(row rowScanner) (*models.SelectionRecord, error) {
	rec := &models.SelectionRecord{}
	err := row.Scan(
		&rec.ID,
		&rec.ConversationID,
		&rec.RequestID,
		&rec.CandidateID,
		&rec.Provider,
		&rec.TaskType,
		&rec.Complexity,
		&rec.Confidence,
		&rec.EstimatedCost,
		&rec.InputTokens,
		&rec.OutputTokens,
		&rec.Cost,
		&rec.CreatedAt,
		&rec.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
