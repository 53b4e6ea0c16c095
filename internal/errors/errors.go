package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeNotFound              = "NOT_FOUND"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeInternal              = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
	CodeNoRecords             = "NO_RECORDS"
	CodeMissingIBAN           = "MISSING_IBAN"
	CodeCreditorNotConfigured = "CREDITOR_NOT_CONFIGURED"
	CodeSubmissionFailed      = "SUBMISSION_FAILED"
)

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")

	// 422 Unprocessable Entity: export preconditions
	ErrNoRecords = New(http.StatusUnprocessableEntity, CodeNoRecords,
		"Keine Regatten erfasst. Bitte zuerst mindestens eine Regatta eintragen.")
	ErrMissingIBAN = New(http.StatusUnprocessableEntity, CodeMissingIBAN,
		"Keine IBAN hinterlegt. Bitte die Bankverbindung im Profil ergänzen.")
	ErrCreditorNotConfigured = New(http.StatusUnprocessableEntity, CodeCreditorNotConfigured,
		"Das Vereinskonto für SEPA-Überweisungen ist nicht konfiguriert.")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, CodeInternal, "Internal server error")

	// 502 Bad Gateway
	ErrSubmissionFailed = New(http.StatusBadGateway, CodeSubmissionFailed,
		"Online-Einreichung fehlgeschlagen. Bitte den Antrag als PDF exportieren und per E-Mail senden.")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}

// WithCause returns a copy of e carrying cause as its details
func (e *APIError) WithCause(cause error) *APIError {
	if cause == nil {
		return e
	}
	return NewWithDetails(e.StatusCode, e.ErrorCode, e.Message, cause.Error())
}
