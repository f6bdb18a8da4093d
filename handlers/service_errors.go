package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/llm-model-router/services"
	"github.com/upb/llm-model-router/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	details := errorDetails(err)

	switch {
	case services.IsNotFoundError(err):
		if err := utils.WriteNotFound(w, domainMessage(err), details); err != nil {
			logger.Error("failed to write not found response", zap.Error(err))
		}

	case services.IsValidationError(err):
		if err := utils.WriteBadRequest(w, domainMessage(err), details); err != nil {
			logger.Error("failed to write bad request response", zap.Error(err))
		}

	case services.IsConfigurationError(err):
		// the router cannot serve until its catalog or ledger is fixed
		logger.Error("configuration error", zap.Error(err))
		if err := utils.WriteServiceUnavailable(w, domainMessage(err)); err != nil {
			logger.Error("failed to write service unavailable response", zap.Error(err))
		}

	case services.IsInternalError(err):
		logger.Error("internal server error", zap.Error(err))
		if err := utils.WriteInternalServerError(w, "An internal error occurred"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if err := utils.WriteInternalServerError(w, "An unexpected error occurred"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		if err := utils.WriteBadRequest(w, "Validation failed", fieldDetails(err, nil)); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

// domainMessage returns the human message of a domain error without its type prefix
func domainMessage(err error) string {
	var domainErr *services.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return err.Error()
}

// errorDetails merges domain error details with wrapped field validation failures
func errorDetails(err error) map[string]interface{} {
	details := make(map[string]interface{})
	for k, v := range services.GetErrorDetails(err) {
		details[k] = v
	}
	details = fieldDetails(err, details)
	if len(details) == 0 {
		return nil
	}
	return details
}

func fieldDetails(err error, into map[string]interface{}) map[string]interface{} {
	fields := utils.GetValidationFields(err)
	if len(fields) == 0 {
		return into
	}
	if into == nil {
		into = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		into[k] = v
	}
	return into
}
