package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "invalid request",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeBadRequest,
			wantCode:   CodeInvalidRequest,
		},
		{
			name:       "validation",
			err:        ErrValidation("season", "season is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   CodeValidationFailed,
		},
		{
			name:       "no records precondition",
			err:        ErrNoRecords,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeExportPrecondition,
			wantCode:   CodeNoRecords,
		},
		{
			name:       "missing iban precondition",
			err:        fmt.Errorf("sepa export: %w", ErrMissingIBAN),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeExportPrecondition,
			wantCode:   CodeMissingIBAN,
		},
		{
			name:       "creditor not configured",
			err:        ErrCreditorNotConfigured,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeExportPrecondition,
			wantCode:   CodeCreditorNotConfigured,
		},
		{
			name:       "submission failed",
			err:        ErrSubmissionFailed,
			wantStatus: http.StatusBadGateway,
			wantType:   TypeSubmissionFailed,
			wantCode:   CodeSubmissionFailed,
		},
		{
			name:       "plain not found error",
			err:        fmt.Errorf("regatta not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error hides details",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/exports/csv", nil)
			rec := httptest.NewRecorder()
			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/exports/csv", body["instance"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestErrorHandler_LogLevel(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(httptest.NewRecorder(), req, ErrNoRecords)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
	testutil.AssertNoErrors(t, logs)

	handler.HandleError(httptest.NewRecorder(), req, ErrSubmissionFailed)
	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	handler.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/boom", nil), "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "boom", body["panic"])
	assert.NotEmpty(t, body["stack"])
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/x").
		WithExtension("error_code", CodeValidationFailed).
		WithExtension("type", "must not override")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, CodeValidationFailed, body["error_code"])
	assert.NotContains(t, body, "detail")
}

func TestAPIError_WithCause(t *testing.T) {
	err := ErrSubmissionFailed.WithCause(fmt.Errorf("relay returned 503"))
	assert.Equal(t, "relay returned 503", err.Details)
	assert.Nil(t, ErrSubmissionFailed.Details, "predefined error must stay untouched")
	assert.Same(t, ErrNoRecords, ErrNoRecords.WithCause(nil))
}
