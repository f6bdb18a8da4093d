package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upb/llm-model-router/app"
	"github.com/upb/llm-model-router/handlers"
	appmiddleware "github.com/upb/llm-model-router/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestContext)
	r.Use(appmiddleware.RequestLogger(deps.Logger, deps.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", appmiddleware.RequestIDHeader},
		ExposedHeaders:   []string{appmiddleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(deps.SQLDB(), deps.Catalog, deps.Logger)
	modelHandler := handlers.NewModelHandler(deps.Routing, deps.Logger)
	selectionHandler := handlers.NewSelectionHandler(deps.Routing, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/models", func(r chi.Router) {
			r.Get("/", modelHandler.HandleListModels)
			r.Get("/{id}", modelHandler.HandleGetModel)
		})

		r.Post("/analyze", selectionHandler.HandleAnalyze)
		r.Post("/select", selectionHandler.HandleSelect)
		r.Post("/route", selectionHandler.HandleRoute)
		r.Post("/cost", selectionHandler.HandleEstimateCost)
		r.Post("/usage", selectionHandler.HandleRecordUsage)

		r.Route("/conversations/{id}", func(r chi.Router) {
			r.Get("/usage", selectionHandler.HandleConversationUsage)
			r.Get("/selections", selectionHandler.HandleConversationSelections)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
