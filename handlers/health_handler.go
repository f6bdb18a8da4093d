package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/upb/llm-model-router/services/catalog"
	"github.com/upb/llm-model-router/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// CatalogSource exposes the currently published candidate catalog
type CatalogSource interface {
	Current() *catalog.Catalog
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db       *sql.DB
	catalogs CatalogSource
	logger   *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. db is nil when the selection
// ledger is kept in memory.
func NewHealthHandler(db *sql.DB, catalogs CatalogSource, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		catalogs: catalogs,
		logger:   logger,
	}
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz
// Readiness requires a non-empty catalog and, when configured, a reachable database
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if err := h.checkCatalog(); err != nil {
		h.logger.Warn("catalog health check failed", zap.Error(err))
		checks["catalog"] = "unhealthy"
		allHealthy = false
	} else {
		checks["catalog"] = "healthy"
	}

	switch err := h.checkDatabase(ctx); {
	case h.db == nil:
		checks["database"] = "disabled"
	case err != nil:
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		allHealthy = false
	default:
		checks["database"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

func (h *HealthHandler) checkCatalog() error {
	if h.catalogs == nil || h.catalogs.Current().Len() == 0 {
		return errors.New("no candidates published")
	}
	return nil
}

// checkDatabase checks database connectivity
func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	if h.db == nil {
		return nil
	}

	if err := h.db.PingContext(ctx); err != nil {
		return err
	}

	var result int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return err
	}

	return nil
}
