package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upb/llm-model-router/internal/observability"
	"github.com/upb/llm-model-router/models"
	"github.com/upb/llm-model-router/utils"
	"go.uber.org/zap"
)

// ModelCatalog defines the read operations over the candidate catalog
type ModelCatalog interface {
	// Models lists candidates in catalog order
	Models(ctx context.Context) []models.Candidate

	// Model looks up a candidate by id
	Model(ctx context.Context, id string) (*models.Candidate, error)
}

// ModelHandler handles candidate catalog HTTP requests
type ModelHandler struct {
	catalog ModelCatalog
	logger  *zap.Logger
}

// NewModelHandler creates a new ModelHandler
func NewModelHandler(catalog ModelCatalog, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// HandleListModels handles GET /api/v1/models
func (h *ModelHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidates := h.catalog.Models(ctx)

	observability.FromContext(ctx, h.logger).Debug("listed models",
		zap.Int("count", len(candidates)))

	_ = utils.WriteOK(w, candidates)
}

// HandleGetModel handles GET /api/v1/models/{id}
func (h *ModelHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if id == "" {
		_ = utils.WriteBadRequest(w, "Model id is required", nil)
		return
	}

	candidate, err := h.catalog.Model(ctx, id)
	if err != nil {
		HandleServiceError(w, err, observability.FromContext(ctx, h.logger))
		return
	}

	_ = utils.WriteOK(w, candidate)
}
