package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reload outcomes reported by RecordCatalogReload
const (
	ReloadSucceeded = "success"
	ReloadFailed    = "failure"
)

// Metrics bundles Prometheus collectors for the model router.
// All methods are safe to call on a nil receiver.
type Metrics struct {
	registry       *prometheus.Registry
	Selections     *prometheus.CounterVec
	Confidence     *prometheus.HistogramVec
	CatalogReloads *prometheus.CounterVec
	CatalogSize    prometheus.Gauge
	EstimatedCost  *prometheus.CounterVec
	RecordedCost   *prometheus.CounterVec
	RecordedTokens *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// NewMetrics constructs a metrics registry with router collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_router_selections_total",
		Help: "Routing decisions by selected candidate and task type",
	}, []string{"candidate", "task_type"})

	confidence := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "model_router_selection_confidence",
		Help:    "Confidence of routing decisions",
		Buckets: []float64{60, 65, 70, 75, 80, 85, 90, 95},
	}, []string{"task_type"})

	reloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_router_catalog_reloads_total",
		Help: "Catalog reload attempts by result",
	}, []string{"result"})

	size := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "model_router_catalog_candidates",
		Help: "Number of candidates in the published catalog",
	})

	estimated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_router_estimated_cost_total",
		Help: "Pre-call cost estimates by candidate",
	}, []string{"candidate"})

	recorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_router_recorded_cost_total",
		Help: "Cost computed from reported usage by candidate",
	}, []string{"candidate"})

	tokens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_router_recorded_tokens_total",
		Help: "Reported token usage by candidate and direction",
	}, []string{"candidate", "direction"})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_router_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "model_router_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(selections, confidence, reloads, size, estimated, recorded, tokens, httpRequests, httpDuration)

	return &Metrics{
		registry:       reg,
		Selections:     selections,
		Confidence:     confidence,
		CatalogReloads: reloads,
		CatalogSize:    size,
		EstimatedCost:  estimated,
		RecordedCost:   recorded,
		RecordedTokens: tokens,
		HTTPRequests:   httpRequests,
		HTTPDuration:   httpDuration,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordSelection records a routing decision.
func (m *Metrics) RecordSelection(candidate, taskType string, confidence int) {
	if m == nil {
		return
	}
	if candidate == "" {
		candidate = "unknown"
	}
	if taskType == "" {
		taskType = "unknown"
	}
	m.Selections.WithLabelValues(candidate, taskType).Inc()
	m.Confidence.WithLabelValues(taskType).Observe(float64(confidence))
}

// RecordCatalogReload records a catalog reload attempt and, on success, the new size.
func (m *Metrics) RecordCatalogReload(result string, size int) {
	if m == nil {
		return
	}
	m.CatalogReloads.WithLabelValues(result).Inc()
	if result == ReloadSucceeded {
		m.CatalogSize.Set(float64(size))
	}
}

// SetCatalogSize sets the published catalog size gauge.
func (m *Metrics) SetCatalogSize(size int) {
	if m == nil {
		return
	}
	m.CatalogSize.Set(float64(size))
}

// RecordEstimatedCost adds a pre-call estimate for a candidate.
func (m *Metrics) RecordEstimatedCost(candidate string, cost float64) {
	if m == nil {
		return
	}
	m.EstimatedCost.WithLabelValues(candidate).Add(cost)
}

// RecordUsage adds reported tokens and the resulting cost for a candidate.
func (m *Metrics) RecordUsage(candidate string, inputTokens, outputTokens int, cost float64) {
	if m == nil {
		return
	}
	m.RecordedTokens.WithLabelValues(candidate, "input").Add(float64(inputTokens))
	m.RecordedTokens.WithLabelValues(candidate, "output").Add(float64(outputTokens))
	m.RecordedCost.WithLabelValues(candidate).Add(cost)
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
