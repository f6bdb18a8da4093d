package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/upb/llm-model-router/models"
)

var (
	// ErrNotFound is returned when a selection record does not exist
	ErrNotFound = errors.New("selection record not found")

	// ErrAlreadyCompleted is returned when usage was already reported for a selection
	ErrAlreadyCompleted = errors.New("usage already recorded for selection")
)

// Usage is the token usage reported by the dispatcher after a backend call
type Usage struct {
	InputTokens  int
	OutputTokens int
	Cost         float64
	CompletedAt  time.Time
}

// SelectionRepository stores routing decisions and the usage they led to
type SelectionRepository interface {
	// Insert stores a new selection record
	Insert(ctx context.Context, record *models.SelectionRecord) error

	// UpdateUsage records usage for a selection exactly once and returns the updated record
	UpdateUsage(ctx context.Context, id uuid.UUID, usage Usage) (*models.SelectionRecord, error)

	// GetByID retrieves a selection record by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.SelectionRecord, error)

	// ListByConversation retrieves selection records for a conversation, oldest first
	ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*models.SelectionRecord, error)

	// TotalsByConversation aggregates recorded usage for a conversation
	TotalsByConversation(ctx context.Context, conversationID string) (*models.UsageTotals, error)
}

// HealthChecker is implemented by stores backed by an external system
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Repositories holds all repository instances
type Repositories struct {
	Selections SelectionRepository
}
