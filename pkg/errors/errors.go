package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeAPIError      = "API_ERROR"
	CodeDataRefresh   = "DATA_REFRESH_ERROR"
	CodeIndexNotReady = "INDEX_NOT_READY"
	CodeResolution    = "RESOLUTION_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeCache         = "CACHE_ERROR"
	CodeService       = "SERVICE_ERROR"
)

type AssistantError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AssistantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AssistantError) Unwrap() error {
	return e.Cause
}

func NewAssistantError(message, code string, statusCode int, context map[string]any) *AssistantError {
	return &AssistantError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AssistantError) WithCause(cause error) *AssistantError {
	e.Cause = cause
	return e
}

type APIError struct {
	*AssistantError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AssistantError: &AssistantError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// DataRefreshError signals that a catalog refresh failed before the new
// generation could be published. The previous generation stays in place.
type DataRefreshError struct {
	*AssistantError
	Stage string
}

func NewDataRefreshError(message, stage string, cause error) *DataRefreshError {
	return &DataRefreshError{
		AssistantError: &AssistantError{
			Message:    message,
			Code:       CodeDataRefresh,
			StatusCode: 502,
			Context: map[string]any{
				"stage": stage,
			},
			Cause: cause,
		},
		Stage: stage,
	}
}

// IndexNotReadyError signals a search against an index that has never been built.
type IndexNotReadyError struct {
	*AssistantError
}

func NewIndexNotReadyError(message string) *IndexNotReadyError {
	return &IndexNotReadyError{
		AssistantError: &AssistantError{
			Message:    message,
			Code:       CodeIndexNotReady,
			StatusCode: 503,
		},
	}
}

// ResolutionError signals that a query could not be resolved against the
// current catalog generation (typically: no catalog loaded yet).
type ResolutionError struct {
	*AssistantError
}

func NewResolutionError(message string, cause error) *ResolutionError {
	return &ResolutionError{
		AssistantError: &AssistantError{
			Message:    message,
			Code:       CodeResolution,
			StatusCode: 503,
			Cause:      cause,
		},
	}
}

type ValidationError struct {
	*AssistantError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AssistantError: &AssistantError{
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

type CacheError struct {
	*AssistantError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AssistantError: &AssistantError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AssistantError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AssistantError: &AssistantError{
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

func IsIndexNotReady(err error) bool {
	var target *IndexNotReadyError
	return stderrors.As(err, &target)
}

func IsResolution(err error) bool {
	var target *ResolutionError
	return stderrors.As(err, &target)
}

func IsDataRefresh(err error) bool {
	var target *DataRefreshError
	return stderrors.As(err, &target)
}
