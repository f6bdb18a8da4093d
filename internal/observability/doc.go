// Package observability provides structured logging and metrics
// for the model router.
//
// This package implements:
//   - Structured logging with contextual fields (zap-based)
//   - Prometheus metrics for selections, cost and catalog reloads
//   - Request ID propagation into log fields
package observability
