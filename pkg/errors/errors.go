package errors

import "fmt"

// Error codes
const (
	CodeAPIError       = "API_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeClassification = "CLASSIFICATION_ERROR"
	CodeService        = "SERVICE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// APIError describes a failed call against an upstream HTTP API.
type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// ClassificationError is returned by AI classification. Callers recover from it
// by falling back to keyword matching.
type ClassificationError struct {
	*AppError
	Provider string
	Reason   string
}

const (
	ReasonMissingCredentials = "missing_credentials"
	ReasonCircuitOpen        = "circuit_open"
	ReasonTimeout            = "timeout"
	ReasonProvider           = "provider_error"
	ReasonTemplate           = "template_error"
)

func NewClassificationError(message, provider, reason string, cause error) *ClassificationError {
	return &ClassificationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeClassification,
			StatusCode: 503,
			Context: map[string]any{
				"provider": provider,
				"reason":   reason,
			},
			Cause: cause,
		},
		Provider: provider,
		Reason:   reason,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}
