package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodyBytes bounds JSON request bodies
const MaxRequestBodyBytes = 1 << 20

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with optional data
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteCreated writes a 201 Created response with optional data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

// WriteBadRequest writes a 400 Bad Request response with error details
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: message,
		Details: details,
	})
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string, details map[string]interface{}) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: message,
		Details: details,
	})
}

// WriteServiceUnavailable writes a 503 Service Unavailable response
func WriteServiceUnavailable(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Service unavailable"
	}
	return WriteJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Error:   "service_unavailable",
		Message: message,
	})
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: message,
	})
}

// WriteError writes an error response based on the status code
func WriteError(w http.ResponseWriter, status int, message string, details map[string]interface{}) error {
	var errorType string
	switch status {
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusServiceUnavailable:
		errorType = "service_unavailable"
	default:
		errorType = "internal_error"
	}

	return WriteJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: message,
		Details: details,
	})
}

// DecodeJSON decodes a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}

	return nil
}
