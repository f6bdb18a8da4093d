// Package memory provides an in-process selection ledger for runs without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/repositories"
)

// SelectionRepository keeps selection records in a map guarded by a mutex
type SelectionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.SelectionRecord
	seq     map[uuid.UUID]uint64
	next    uint64
}

// NewSelectionRepository creates an empty in-memory ledger
func NewSelectionRepository() *SelectionRepository {
	return &SelectionRepository{
		records: make(map[uuid.UUID]*models.SelectionRecord),
		seq:     make(map[uuid.UUID]uint64),
	}
}

// NewRepositories wires the in-memory ledger into a Repositories set
func NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Selections: NewSelectionRepository(),
	}
}

// Insert stores a copy of record
func (r *SelectionRepository) Insert(ctx context.Context, record *models.SelectionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	r.records[record.ID] = &stored
	r.next++
	r.seq[record.ID] = r.next
	return nil
}

// UpdateUsage records usage once per selection
func (r *SelectionRepository) UpdateUsage(ctx context.Context, id uuid.UUID, usage repositories.Usage) (*models.SelectionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if record.IsCompleted() {
		return nil, repositories.ErrAlreadyCompleted
	}

	completedAt := usage.CompletedAt
	record.InputTokens = usage.InputTokens
	record.OutputTokens = usage.OutputTokens
	record.Cost = usage.Cost
	record.CompletedAt = &completedAt

	out := *record
	return &out, nil
}

// GetByID returns a copy of the record
func (r *SelectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SelectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *record
	return &out, nil
}

// ListByConversation returns records in insertion order
func (r *SelectionRepository) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*models.SelectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.SelectionRecord
	for _, record := range r.records {
		if record.ConversationID == conversationID {
			matched = append(matched, record)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return r.seq[matched[i].ID] < r.seq[matched[j].ID]
	})

	if offset >= len(matched) {
		return []*models.SelectionRecord{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*models.SelectionRecord, len(matched))
	for i, record := range matched {
		copied := *record
		out[i] = &copied
	}
	return out, nil
}

// TotalsByConversation sums usage over the conversation's records
func (r *SelectionRepository) TotalsByConversation(ctx context.Context, conversationID string) (*models.UsageTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := &models.UsageTotals{ConversationID: conversationID}
	for _, record := range r.records {
		if record.ConversationID != conversationID {
			continue
		}
		totals.Selections++
		totals.InputTokens += record.InputTokens
		totals.OutputTokens += record.OutputTokens
		totals.TotalCost += record.Cost
	}
	totals.TotalTokens = totals.InputTokens + totals.OutputTokens
	return totals, nil
}
