package utils

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their wire name so errors match request and catalog keys
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct validates a struct using go-playground/validator
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError wraps validation errors with structured details
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, msg := range e.Fields {
		parts = append(parts, msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

// NewValidationError creates a ValidationError from validator.ValidationErrors
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		tag := err.Tag()

		switch tag {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "uuid":
			fields[field] = fmt.Sprintf("%s must be a valid UUID", field)
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gt":
			fields[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			fields[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "lt":
			fields[field] = fmt.Sprintf("%s must be less than %s", field, err.Param())
		case "lte":
			fields[field] = fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "required_without":
			fields[field] = fmt.Sprintf("%s is required when %s is absent", field, err.Param())
		default:
			fields[field] = fmt.Sprintf("%s validation failed on '%s' tag", field, tag)
		}
	}

	return &ValidationError{
		Message: "Validation failed",
		Fields:  fields,
	}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// GetValidationFields extracts field errors from a ValidationError
func GetValidationFields(err error) map[string]string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Fields
	}
	return nil
}

// ParseUUID parses s as a UUID, naming the field in the error
func ParseUUID(s, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID: %q", fieldName, s)
	}
	return id, nil
}
