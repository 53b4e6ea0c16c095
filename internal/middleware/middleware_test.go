package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	apierrors "clubportal/internal/errors"
	"clubportal/internal/infrastructure"
	"clubportal/internal/shared/testutil"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	t.Run("generates id", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		var seen, traceID string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
			traceID = infrastructure.GetTraceID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", traceID)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestStructuredLogger(t *testing.T) {
	logger, store := testutil.NewTestLogger(t)

	h := RequestID(StructuredLogger(logger)(http.HandlerFunc(okHandler)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/exports/csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.ContainsMessage("request completed"))
	assert.True(t, store.ContainsAttr("path", "/api/exports/csv"))
	assert.True(t, store.ContainsAttr("status", int64(http.StatusOK)))
}

func TestStructuredLogger_SpanTraceID(t *testing.T) {
	logger, store := testutil.NewTestLogger(t)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	var seen string
	h := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = infrastructure.GetTraceID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req = req.WithContext(trace.ContextWithSpanContext(req.Context(), spanCtx))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, traceID.String(), seen)
	assert.True(t, store.ContainsAttr("otel_trace_id", traceID.String()))
}

func TestStructuredLogger_NoSpan(t *testing.T) {
	logger, store := testutil.NewTestLogger(t)

	h := RequestID(StructuredLogger(logger)(http.HandlerFunc(okHandler)))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	for _, rec := range store.GetRecords() {
		_, ok := rec.Attrs["otel_trace_id"]
		assert.False(t, ok)
	}
}

func TestRecoverer(t *testing.T) {
	logger, store := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	h := RequestID(Recoverer(errorHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeInternal)
	assert.True(t, store.ContainsMessage("panic recovered"))
}

func TestRateLimiter(t *testing.T) {
	logger, store := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.001, 1, apierrors.NewErrorHandler(logger, false), logger)
	h := rl.Handler(http.HandlerFunc(okHandler))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.True(t, store.ContainsMessage("rate limit exceeded"))
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
		<-r.Context().Done()
		assert.ErrorIs(t, r.Context().Err(), context.DeadlineExceeded)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, ok)
	assert.False(t, deadline.IsZero())
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}})(http.HandlerFunc(okHandler))

	tests := []struct {
		name       string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", http.MethodPost, "http://localhost:5173", false, http.StatusOK, "http://localhost:5173"},
		{"foreign origin", http.MethodPost, "http://evil.example", false, http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:5173", true, http.StatusNoContent, "http://localhost:5173"},
		{"no origin", http.MethodGet, "", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/exports/csv", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
