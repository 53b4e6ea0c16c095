package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "clubportal/internal/errors"
	"clubportal/internal/exporter"
	"clubportal/internal/season"
	"clubportal/internal/services"
	"clubportal/internal/shared/testutil"
	"clubportal/internal/submission"
	"clubportal/pkg/contracts/domain"
)

func newSeasonTestHandler(t *testing.T) (http.Handler, *MockSeasonService) {
	t.Helper()
	validator, errorHandler, _ := handlerDeps(t)
	logger, _ := testutil.NewTestLogger(t)
	svc := &MockSeasonService{}
	return NewSeasonHandler(svc, validator, logger, errorHandler).Routes(), svc
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestSeasonHandler_ListSeasons(t *testing.T) {
	h, svc := newSeasonTestHandler(t)
	svc.On("Seasons", mock.Anything).Return([]string{"2023", "2024"}).Once()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"seasons":["2023","2024"]}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestSeasonHandler_InvalidSeason(t *testing.T) {
	h, svc := newSeasonTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/saison-24/regattas", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, rec)["type"])
	svc.AssertNotCalled(t, "Regattas", mock.Anything, mock.Anything)
}

func TestSeasonHandler_Profile(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("Profile", mock.Anything, "2024").Return(testutil.Profile(), nil).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2024/profile", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var profile domain.ProfileRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Equal(t, "Max Mustermann", profile.Name)
	})

	t.Run("get unknown season", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("Profile", mock.Anything, "2019").
			Return(domain.ProfileRecord{}, fmt.Errorf("%w: 2019", season.ErrSeasonNotFound)).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2019/profile", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apierrors.TypeNotFound, decodeProblem(t, rec)["type"])
	})

	t.Run("put", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("SaveProfile", mock.Anything, "2024", testutil.Profile()).Return(testutil.Profile(), nil).Once()

		data, err := json.Marshal(testutil.Profile())
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/2024/profile", strings.NewReader(string(data))))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("put unknown boat class", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/2024/profile",
			strings.NewReader(`{"name":"Max","boatClass":"Titanic"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SaveProfile", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSeasonHandler_RegattaLifecycle(t *testing.T) {
	record := testutil.KielerWoche()
	matchRecord := mock.MatchedBy(func(r domain.RegattaRecord) bool {
		return r.RegattaName == record.RegattaName && r.InvoiceAmount.Equal(record.InvoiceAmount)
	})
	body := func() *strings.Reader {
		data, err := json.Marshal(record)
		require.NoError(t, err)
		return strings.NewReader(string(data))
	}

	t.Run("list", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("Regattas", mock.Anything, "2024").Return([]domain.RegattaRecord{record}, nil).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2024/regattas", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Regattas []domain.RegattaRecord `json:"regattas"`
			Total    string                 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Regattas, 1)
		assert.Equal(t, "45.5", resp.Total)
	})

	t.Run("create", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("AddRegatta", mock.Anything, "2024", matchRecord).Return(record, nil).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/2024/regattas", body()))

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("create with invalid date", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/2024/regattas",
			strings.NewReader(`{"regattaName":"Kieler Woche","date":"01.06.2024","raceCount":5,"invoiceAmount":"45.50"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, rec)["type"])
		svc.AssertNotCalled(t, "AddRegatta", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("update", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("UpdateRegatta", mock.Anything, "2024", "kw-2024", matchRecord).Return(record, nil).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/2024/regattas/kw-2024", body()))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("update unknown record", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("UpdateRegatta", mock.Anything, "2024", "nope", matchRecord).
			Return(domain.RegattaRecord{}, fmt.Errorf("%w: nope", season.ErrRegattaNotFound)).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/2024/regattas/nope", body()))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("DeleteRegatta", mock.Anything, "2024", "kw-2024").Return(nil).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/2024/regattas/kw-2024", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestSeasonHandler_Export(t *testing.T) {
	t.Run("pdf download", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("Export", mock.Anything, "2024", domain.ExportKindSummaryPDF, services.ExportOptions{}).
			Return(&exporter.Artifact{
				Kind:        domain.ExportKindSummaryPDF,
				Filename:    "Startgelder_2024_GER_1234.pdf",
				ContentType: exporter.ContentTypePDF,
				Body:        []byte("%PDF-1.3"),
			}, nil).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2024/exports/summary.pdf", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, exporter.ContentTypePDF, rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "%PDF-1.3", rec.Body.String())
	})

	t.Run("unknown kind", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2024/exports/odt", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing iban", func(t *testing.T) {
		h, svc := newSeasonTestHandler(t)
		svc.On("Export", mock.Anything, "2024", domain.ExportKindSEPA, services.ExportOptions{}).
			Return(nil, services.ErrMissingIBAN).Once()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2024/exports/sepa.xml", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		problem := decodeProblem(t, rec)
		assert.Equal(t, apierrors.TypeExportPrecondition, problem["type"])
		assert.Equal(t, apierrors.CodeMissingIBAN, problem["error_code"])
	})
}

func TestSeasonHandler_Statistics(t *testing.T) {
	h, svc := newSeasonTestHandler(t)
	svc.On("Statistics", mock.Anything, "2024").Return(domain.SeasonStatistics{RegattaCount: 3, TotalRaces: 11}, nil).Once()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/2024/statistics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.SeasonStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.RegattaCount)
	assert.Nil(t, stats.BestPlacement)
}

func TestSeasonHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		receipt    submission.Receipt
		err        error
		wantStatus int
	}{
		{"accepted", submission.Receipt{ID: "r-1", StatusCode: http.StatusOK}, nil, http.StatusAccepted},
		{"relay failed", submission.Receipt{}, fmt.Errorf("%w: %w", services.ErrSubmissionFailed, submission.ErrRelayFailed), http.StatusBadGateway},
		{"not configured", submission.Receipt{}, services.ErrSubmissionNotConfigured, http.StatusServiceUnavailable},
		{"no records", submission.Receipt{}, services.ErrNoRecords, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newSeasonTestHandler(t)
			svc.On("Submit", mock.Anything, "2024").Return(tt.receipt, tt.err).Once()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/2024/submit", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
