package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/llm-model-router/internal/observability"
	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/services/cost"
	"github.com/upb/llm-model-router/services/routing"
	"github.com/upb/llm-model-router/utils"
	"go.uber.org/zap"
)

// AnalyzeRequest represents a request to derive criteria from a prompt
type AnalyzeRequest struct {
	Prompt string `json:"prompt" validate:"max=1000000"`
}

// SelectRequest ranks the catalog for a prompt or for explicit criteria.
// When both are present the criteria win.
type SelectRequest struct {
	Prompt   *string          `json:"prompt,omitempty" validate:"required_without=Criteria,omitempty,max=1000000"`
	Criteria *models.Criteria `json:"criteria,omitempty"`
	Explain  bool             `json:"explain,omitempty"`
}

// SelectResponse carries a selection and, on request, the full ranking
type SelectResponse struct {
	Criteria  models.Criteria          `json:"criteria"`
	Selection *models.SelectionResult  `json:"selection"`
	Ranking   []models.ScoredCandidate `json:"ranking,omitempty"`
}

// CostRequest prices an exchange with one candidate. When input_tokens is
// omitted it is estimated from prompt.
type CostRequest struct {
	ModelID      string `json:"model_id" validate:"required,max=100"`
	Prompt       string `json:"prompt,omitempty" validate:"max=1000000"`
	InputTokens  *int   `json:"input_tokens,omitempty" validate:"omitempty,gte=0"`
	OutputTokens int    `json:"output_tokens" validate:"gte=0"`
}

// SelectionService defines the routing operations exposed over HTTP
type SelectionService interface {
	Analyze(ctx context.Context, prompt string) models.Criteria
	Explain(ctx context.Context, criteria models.Criteria) (*models.SelectionResult, []models.ScoredCandidate, error)
	Route(ctx context.Context, req routing.RouteRequest) (*routing.RouteDecision, error)
	EstimateCost(ctx context.Context, modelID string, inputTokens, outputTokens int) (*cost.Estimate, error)
	RecordUsage(ctx context.Context, report routing.UsageReport) (*models.SelectionRecord, error)
	UsageTotals(ctx context.Context, conversationID string) (*models.UsageTotals, error)
	Selections(ctx context.Context, conversationID string, limit, offset int) ([]*models.SelectionRecord, error)
}

// SelectionHandler handles analysis, selection and usage HTTP requests
type SelectionHandler struct {
	service SelectionService
	logger  *zap.Logger
}

// NewSelectionHandler creates a new SelectionHandler
func NewSelectionHandler(service SelectionService, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAnalyze handles POST /api/v1/analyze
func (h *SelectionHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	_ = utils.WriteOK(w, h.service.Analyze(r.Context(), req.Prompt))
}

// HandleSelect handles POST /api/v1/select
func (h *SelectionHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx, h.logger)

	var req SelectRequest
	if !h.decode(w, r, &req) {
		return
	}

	var criteria models.Criteria
	if req.Criteria != nil {
		criteria = *req.Criteria
	} else {
		criteria = h.service.Analyze(ctx, *req.Prompt)
	}

	result, ranking, err := h.service.Explain(ctx, criteria)
	if err != nil {
		HandleServiceError(w, err, logger)
		return
	}

	response := SelectResponse{
		Criteria:  criteria,
		Selection: result,
	}
	if req.Explain {
		response.Ranking = ranking
	}

	logger.Debug("model selected",
		zap.String("candidate_id", result.SelectedModel.ID),
		zap.Int("confidence", result.Confidence))

	_ = utils.WriteOK(w, response)
}

// HandleRoute handles POST /api/v1/route
func (h *SelectionHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req routing.RouteRequest
	if !h.decode(w, r, &req) {
		return
	}

	decision, err := h.service.Route(ctx, req)
	if err != nil {
		HandleServiceError(w, err, observability.FromContext(ctx, h.logger))
		return
	}

	_ = utils.WriteOK(w, decision)
}

// HandleEstimateCost handles POST /api/v1/cost
func (h *SelectionHandler) HandleEstimateCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CostRequest
	if !h.decode(w, r, &req) {
		return
	}

	inputTokens := cost.EstimateTokens(req.Prompt)
	if req.InputTokens != nil {
		inputTokens = *req.InputTokens
	}

	estimate, err := h.service.EstimateCost(ctx, req.ModelID, inputTokens, req.OutputTokens)
	if err != nil {
		HandleServiceError(w, err, observability.FromContext(ctx, h.logger))
		return
	}

	_ = utils.WriteOK(w, estimate)
}

// HandleRecordUsage handles POST /api/v1/usage
func (h *SelectionHandler) HandleRecordUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var report routing.UsageReport
	if !h.decode(w, r, &report) {
		return
	}

	record, err := h.service.RecordUsage(ctx, report)
	if err != nil {
		HandleServiceError(w, err, observability.FromContext(ctx, h.logger))
		return
	}

	_ = utils.WriteOK(w, record)
}

// HandleConversationUsage handles GET /api/v1/conversations/{id}/usage
func (h *SelectionHandler) HandleConversationUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := h.service.UsageTotals(ctx, chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, err, observability.FromContext(ctx, h.logger))
		return
	}

	_ = utils.WriteOK(w, totals)
}

// HandleConversationSelections handles GET /api/v1/conversations/{id}/selections
func (h *SelectionHandler) HandleConversationSelections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	records, err := h.service.Selections(ctx, chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		HandleServiceError(w, err, observability.FromContext(ctx, h.logger))
		return
	}

	_ = utils.WriteOK(w, records)
}

// decode parses and validates a JSON body, writing a 400 on failure
func (h *SelectionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	logger := observability.FromContext(r.Context(), h.logger)

	if err := utils.DecodeJSON(r, dst); err != nil {
		logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		logger.Warn("request validation failed", zap.Error(err))
		HandleValidationError(w, err, logger)
		return false
	}

	return true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid "+name+" parameter", map[string]interface{}{
			name: raw,
		})
		return 0, false
	}
	return v, true
}
