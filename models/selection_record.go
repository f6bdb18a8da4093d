package models

import (
	"time"

	"github.com/google/uuid"
)

// SelectionRecord is a ledger entry for one routing decision and,
// once reported, the token usage and cost of the call it led to.
// Message content is never stored.
type SelectionRecord struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ConversationID string     `json:"conversation_id,omitempty" db:"conversation_id"`
	RequestID      string     `json:"request_id,omitempty" db:"request_id"`
	CandidateID    string     `json:"candidate_id" db:"candidate_id"`
	Provider       string     `json:"provider" db:"provider"`
	TaskType       TaskType   `json:"task_type" db:"task_type"`
	Complexity     Complexity `json:"complexity" db:"complexity"`
	Confidence     int        `json:"confidence" db:"confidence"`
	EstimatedCost  float64    `json:"estimated_cost" db:"estimated_cost"`
	InputTokens    int        `json:"input_tokens" db:"input_tokens"`
	OutputTokens   int        `json:"output_tokens" db:"output_tokens"`
	Cost           float64    `json:"cost" db:"cost"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// TableName returns the table name for the SelectionRecord model
func (SelectionRecord) TableName() string {
	return "selection_records"
}

// NewSelectionRecord creates a ledger entry for a routing decision
func NewSelectionRecord(conversationID string, criteria Criteria, result *SelectionResult) *SelectionRecord {
	return &SelectionRecord{
		ID:             uuid.New(),
		ConversationID: conversationID,
		CandidateID:    result.SelectedModel.ID,
		Provider:       result.SelectedModel.Provider,
		TaskType:       criteria.TaskType,
		Complexity:     criteria.Complexity,
		Confidence:     result.Confidence,
		CreatedAt:      time.Now().UTC(),
	}
}

// IsCompleted reports whether usage has been recorded for this selection
func (r *SelectionRecord) IsCompleted() bool {
	return r.CompletedAt != nil
}

// UsageTotals aggregates recorded usage for a conversation
type UsageTotals struct {
	ConversationID string  `json:"conversation_id"`
	Selections     int     `json:"selections"`
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	TotalCost      float64 `json:"total_cost"`
}
