// Package routing runs the selection pipeline for a request and keeps the
// selection ledger that usage reports are reconciled against.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/upb/llm-model-router/internal/observability"
	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/repositories"
	"github.com/upb/llm-model-router/services"
	"github.com/upb/llm-model-router/services/analyzer"
	"github.com/upb/llm-model-router/services/catalog"
	"github.com/upb/llm-model-router/services/cost"
	"github.com/upb/llm-model-router/services/selection"
	"github.com/upb/llm-model-router/utils"
	"go.uber.org/zap"
)

// ReasonUserSelected is the reasoning reported when the caller pinned a model
const ReasonUserSelected = "selected by user"

// RoutingConfig holds configuration for the routing service
type RoutingConfig struct {
	// DefaultOutputTokens is the expected response size for pre-call estimates
	DefaultOutputTokens int

	// RecordSelections stores each routed decision in the ledger
	RecordSelections bool
}

// DefaultRoutingConfig returns a sensible default configuration
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		DefaultOutputTokens: 500,
		RecordSelections:    true,
	}
}

// RouteRequest asks for a routing decision for one prompt
type RouteRequest struct {
	Prompt               string `json:"prompt" validate:"max=1000000"`
	ConversationID       string `json:"conversation_id,omitempty" validate:"omitempty,max=255"`
	PreferredModel       string `json:"preferred_model,omitempty" validate:"omitempty,max=100"`
	ExpectedOutputTokens int    `json:"expected_output_tokens,omitempty" validate:"gte=0"`
}

// RouteDecision is the routing outcome handed to the dispatcher
type RouteDecision struct {
	SelectionID    *uuid.UUID             `json:"selection_id,omitempty"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	Criteria       models.Criteria        `json:"criteria"`
	Selection      models.SelectionResult `json:"selection"`
	Estimate       cost.Estimate          `json:"estimate"`
	CatalogVersion uint64                 `json:"catalog_version"`
}

// UsageReport carries actual token counts after the backend call returns
type UsageReport struct {
	SelectionID  uuid.UUID `json:"selection_id" validate:"required"`
	InputTokens  int       `json:"input_tokens" validate:"gte=0"`
	OutputTokens int       `json:"output_tokens" validate:"gte=0"`
}

// RoutingService analyzes requests, selects a candidate and reconciles usage
type RoutingService struct {
	config   RoutingConfig
	store    *catalog.Store
	analyzer *analyzer.Analyzer
	selector *selection.Selector
	ledger   repositories.SelectionRepository
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewRoutingService creates a new routing service. ledger and metrics may be nil.
func NewRoutingService(
	config RoutingConfig,
	store *catalog.Store,
	ledger repositories.SelectionRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *RoutingService {
	if config.DefaultOutputTokens <= 0 {
		config.DefaultOutputTokens = DefaultRoutingConfig().DefaultOutputTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutingService{
		config:   config,
		store:    store,
		analyzer: analyzer.New(),
		selector: selection.New(nil),
		ledger:   ledger,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Catalog returns the currently published catalog
func (s *RoutingService) Catalog() *catalog.Catalog {
	return s.store.Current()
}

// Models lists candidates in catalog order
func (s *RoutingService) Models(ctx context.Context) []models.Candidate {
	return s.store.Current().All()
}

// Model looks up a candidate by id
func (s *RoutingService) Model(ctx context.Context, id string) (*models.Candidate, error) {
	candidate, ok := s.store.Current().Get(id)
	if !ok {
		return nil, services.NewNotFoundError("candidate not found", id)
	}
	return &candidate, nil
}

// Analyze derives criteria from a prompt
func (s *RoutingService) Analyze(ctx context.Context, prompt string) models.Criteria {
	return s.analyzer.Analyze(prompt)
}

// Select ranks the catalog for criteria and returns the best candidate
func (s *RoutingService) Select(ctx context.Context, criteria models.Criteria) (*models.SelectionResult, error) {
	result, _, err := s.Explain(ctx, criteria)
	return result, err
}

// Explain returns the selection together with the full ranking it came from
func (s *RoutingService) Explain(ctx context.Context, criteria models.Criteria) (*models.SelectionResult, []models.ScoredCandidate, error) {
	criteria, err := normalizeCriteria(criteria)
	if err != nil {
		return nil, nil, err
	}

	ranking, err := s.selector.Rank(s.store.Current(), criteria)
	if err != nil {
		return nil, nil, err
	}

	result := selection.ResultFromRanking(ranking, 0)
	s.metrics.RecordSelection(result.SelectedModel.ID, string(criteria.TaskType), result.Confidence)
	return result, ranking, nil
}

// Route analyzes the prompt, selects a candidate, estimates the exchange cost
// and records the decision in the ledger.
func (s *RoutingService) Route(ctx context.Context, req RouteRequest) (*RouteDecision, error) {
	logger := observability.FromContext(ctx, s.logger)

	if err := utils.ValidateStruct(&req); err != nil {
		return nil, services.NewValidationError("invalid route request", err)
	}

	// one snapshot for the whole decision
	snapshot := s.store.Current()
	version := s.store.Version()

	criteria := s.analyzer.Analyze(req.Prompt)
	ranking, err := s.selector.Rank(snapshot, criteria)
	if err != nil {
		return nil, err
	}

	var result *models.SelectionResult
	if req.PreferredModel != "" {
		chosen := -1
		for i, scored := range ranking {
			if scored.Candidate.ID == req.PreferredModel {
				chosen = i
				break
			}
		}
		if chosen < 0 {
			return nil, services.NewNotFoundError("preferred model not found", req.PreferredModel)
		}
		result = selection.ResultFromRanking(ranking, chosen)
		result.Reasoning = ReasonUserSelected
	} else {
		result = selection.ResultFromRanking(ranking, 0)
	}

	outputTokens := req.ExpectedOutputTokens
	if outputTokens == 0 {
		outputTokens = s.config.DefaultOutputTokens
	}
	estimate := cost.EstimateExchange(result.SelectedModel, req.Prompt, outputTokens)

	decision := &RouteDecision{
		ConversationID: req.ConversationID,
		Criteria:       criteria,
		Selection:      *result,
		Estimate:       estimate,
		CatalogVersion: version,
	}

	s.metrics.RecordSelection(result.SelectedModel.ID, string(criteria.TaskType), result.Confidence)
	s.metrics.RecordEstimatedCost(result.SelectedModel.ID, estimate.Cost)

	if s.config.RecordSelections && s.ledger != nil {
		record := models.NewSelectionRecord(req.ConversationID, criteria, result)
		record.RequestID = observability.RequestID(ctx)
		record.EstimatedCost = estimate.Cost
		record.CreatedAt = s.now()

		// ledger failures are logged and the decision is still returned
		if err := s.ledger.Insert(ctx, record); err != nil {
			logger.Warn("failed to record selection",
				zap.String("candidate_id", record.CandidateID),
				zap.Error(err))
		} else {
			decision.SelectionID = &record.ID
		}
	}

	logger.Info("request routed",
		zap.String("candidate_id", result.SelectedModel.ID),
		zap.String("task_type", string(criteria.TaskType)),
		zap.String("complexity", string(criteria.Complexity)),
		zap.Int("confidence", result.Confidence),
		zap.Bool("preferred", req.PreferredModel != ""),
		zap.Float64("estimated_cost", estimate.Cost))

	return decision, nil
}

// EstimateCost prices an exchange with the given candidate
func (s *RoutingService) EstimateCost(ctx context.Context, modelID string, inputTokens, outputTokens int) (*cost.Estimate, error) {
	if inputTokens < 0 || outputTokens < 0 {
		return nil, services.NewValidationError("token counts must be non-negative", nil).
			WithDetail("input_tokens", inputTokens).
			WithDetail("output_tokens", outputTokens)
	}

	candidate, err := s.Model(ctx, modelID)
	if err != nil {
		return nil, err
	}

	return &cost.Estimate{
		ModelID:      candidate.ID,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         cost.Calculate(*candidate, inputTokens, outputTokens),
	}, nil
}

// RecordUsage prices the reported usage with the selected candidate's rates
// and stores it against the selection. Usage is accepted once per selection.
func (s *RoutingService) RecordUsage(ctx context.Context, report UsageReport) (*models.SelectionRecord, error) {
	logger := observability.FromContext(ctx, s.logger)

	if s.ledger == nil {
		return nil, services.NewConfigurationError("selection ledger is not configured", nil)
	}
	if err := utils.ValidateStruct(&report); err != nil {
		return nil, services.NewValidationError("invalid usage report", err)
	}

	record, err := s.ledger.GetByID(ctx, report.SelectionID)
	if err != nil {
		return nil, s.ledgerError(err, report.SelectionID)
	}

	// priced at current catalog rates
	candidate, ok := s.store.Current().Get(record.CandidateID)
	if !ok {
		return nil, services.NewConfigurationError("selected candidate is no longer in the catalog", nil).
			WithDetail("id", record.CandidateID)
	}
	amount := cost.Calculate(candidate, report.InputTokens, report.OutputTokens)

	updated, err := s.ledger.UpdateUsage(ctx, report.SelectionID, repositories.Usage{
		InputTokens:  report.InputTokens,
		OutputTokens: report.OutputTokens,
		Cost:         amount,
		CompletedAt:  s.now(),
	})
	if err != nil {
		return nil, s.ledgerError(err, report.SelectionID)
	}

	s.metrics.RecordUsage(updated.CandidateID, report.InputTokens, report.OutputTokens, amount)
	logger.Info("usage recorded",
		zap.String("selection_id", report.SelectionID.String()),
		zap.String("candidate_id", updated.CandidateID),
		zap.Int("input_tokens", report.InputTokens),
		zap.Int("output_tokens", report.OutputTokens),
		zap.Float64("cost", amount))

	return updated, nil
}

// UsageTotals returns running totals for a conversation
func (s *RoutingService) UsageTotals(ctx context.Context, conversationID string) (*models.UsageTotals, error) {
	if s.ledger == nil {
		return nil, services.NewConfigurationError("selection ledger is not configured", nil)
	}
	if conversationID == "" {
		return nil, services.NewValidationError("conversation id is required", nil)
	}

	totals, err := s.ledger.TotalsByConversation(ctx, conversationID)
	if err != nil {
		return nil, services.WrapInternal("failed to load usage totals", err)
	}
	return totals, nil
}

// Selections lists a conversation's recorded selections, oldest first
func (s *RoutingService) Selections(ctx context.Context, conversationID string, limit, offset int) ([]*models.SelectionRecord, error) {
	if s.ledger == nil {
		return nil, services.NewConfigurationError("selection ledger is not configured", nil)
	}
	if conversationID == "" {
		return nil, services.NewValidationError("conversation id is required", nil)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.ledger.ListByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list selections", err)
	}
	return records, nil
}

func (s *RoutingService) ledgerError(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return services.NewNotFoundError("selection not found", id.String())
	case errors.Is(err, repositories.ErrAlreadyCompleted):
		return services.NewValidationError("usage already recorded for selection", err).
			WithDetail("selection_id", id.String())
	default:
		return services.WrapInternal("selection ledger error", err)
	}
}

// normalizeCriteria fills unset enums with their defaults and rejects unknown values
func normalizeCriteria(c models.Criteria) (models.Criteria, error) {
	if err := utils.ValidateStruct(&c); err != nil {
		return c, services.NewValidationError("invalid criteria", err)
	}
	defaults := models.DefaultCriteria()
	if c.TaskType == "" {
		c.TaskType = defaults.TaskType
	}
	if c.Complexity == "" {
		c.Complexity = defaults.Complexity
	}
	return c, nil
}
