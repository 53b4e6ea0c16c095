package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/internal/config"
	"clubportal/internal/exporter"
	"clubportal/internal/infrastructure"
	"clubportal/internal/shared/testutil"
	"clubportal/pkg/contracts"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Security.RateLimit.Enabled = false
	cfg.Paths.ExportsDir = t.TempDir()
	cfg.Export.CompressPDF = false
	cfg.Creditor = config.CreditorConfig{
		Name: "Segel-Club Musterstadt e.V.",
		IBAN: "DE02120300000000202051",
		BIC:  "BYLADEM1001",
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	application, err := New(cfg, logger, infrastructure.NoopProviders(logger))
	require.NoError(t, err)
	return application
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestNew(t *testing.T) {
	application := newTestApp(t, testConfig(t))

	assert.NotNil(t, application.Router)
	assert.NotNil(t, application.Server)
	assert.NotNil(t, application.Metrics)
	require.NotNil(t, application.Services)
	assert.NotNil(t, application.Services.Store)
	assert.NotNil(t, application.Services.Export)
	assert.NotNil(t, application.Services.Season)
	assert.NotNil(t, application.Services.Health)
	assert.False(t, application.Services.Relay.Configured())
	assert.Equal(t, ":0", application.Server.Addr)
	assert.Equal(t, application.Config.Server.ReadTimeout, application.Server.ReadTimeout)
}

func TestHealthRoutes(t *testing.T) {
	application := newTestApp(t, testConfig(t))

	for _, path := range []string{"/api/health", "/api/health/ready", "/api/health/live"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, application.Router, http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}

	rec := do(t, application.Router, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, contracts.Version, info.Version)
}

func TestStatelessExport(t *testing.T) {
	application := newTestApp(t, testConfig(t))
	body := marshal(t, testutil.SeasonExport("2024", testutil.KielerWoche()))

	t.Run("csv", func(t *testing.T) {
		rec := do(t, application.Router, http.MethodPost, "/api/exports/csv", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, exporter.ContentTypeCSV, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
		assert.Contains(t, rec.Body.String(), "Kieler Woche")
	})

	t.Run("sepa", func(t *testing.T) {
		rec := do(t, application.Router, http.MethodPost, "/api/exports/sepa.xml", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "pain.001.001.03")
		assert.Contains(t, rec.Body.String(), "<InstdAmt Ccy=\"EUR\">45.50</InstdAmt>")
	})

	t.Run("empty season is refused", func(t *testing.T) {
		rec := do(t, application.Router, http.MethodPost, "/api/exports/summary.pdf", `{"season":"2024"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_RECORDS")
	})
}

func TestSEPARefusedWithoutCreditor(t *testing.T) {
	cfg := testConfig(t)
	cfg.Creditor = config.CreditorConfig{}
	application := newTestApp(t, cfg)

	rec := do(t, application.Router, http.MethodPost, "/api/exports/sepa.xml",
		marshal(t, testutil.SeasonExport("2024", testutil.KielerWoche())))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "CREDITOR_NOT_CONFIGURED")

	ready := do(t, application.Router, http.MethodGet, "/api/health/ready", "")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), "degraded")
}

func TestSeasonWorkflow(t *testing.T) {
	var relayCalls atomic.Int32
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relayCalls.Add(1)
		var app map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&app); err != nil || app["season"] != "2024" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"id":"antrag-7"}`))
	}))
	defer relay.Close()

	cfg := testConfig(t)
	cfg.Submission.RelayURL = relay.URL
	application := newTestApp(t, cfg)
	h := application.Router

	rec := do(t, h, http.MethodPut, "/api/seasons/2024/profile", marshal(t, testutil.Profile()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/seasons/2024/regattas", marshal(t, testutil.KielerWoche()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/seasons/2024/regattas", marshal(t, testutil.Regatta("Pokal", testutil.IntPtr(4), "20.00")))
	require.Equal(t, http.StatusCreated, rec.Code)
	var pokal struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pokal))
	require.NotEmpty(t, pokal.ID)

	rec = do(t, h, http.MethodGet, "/api/seasons", "")
	assert.JSONEq(t, `{"seasons":["2024"]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/seasons/2024/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"regattaCount":2`)

	rec = do(t, h, http.MethodGet, "/api/seasons/2024/exports/bundle.zip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.ContentTypeZIP, rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodDelete, "/api/seasons/2024/regattas/"+pokal.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/seasons/2024/regattas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":"45.5"`)

	rec = do(t, h, http.MethodPost, "/api/seasons/2024/submit", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "antrag-7")
	assert.Equal(t, int32(1), relayCalls.Load())
}

func TestUnknownSeasonAndRoute(t *testing.T) {
	application := newTestApp(t, testConfig(t))

	rec := do(t, application.Router, http.MethodGet, "/api/seasons/2019/profile", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, application.Router, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, application.Router, http.MethodPatch, "/api/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	application := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, do(t, application.Router, http.MethodGet, "/api/health/live", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, application.Router, http.MethodGet, "/api/health/live", "").Code)
}

func TestCORSConfig(t *testing.T) {
	cfg := testConfig(t)
	application := newTestApp(t, cfg)

	corsCfg := application.corsConfig()
	assert.Equal(t, cfg.Security.AllowedOrigins, corsCfg.AllowedOrigins)
	assert.Contains(t, corsCfg.ExposedHeaders, "Content-Disposition")

	cfg.Security.EnableCORS = false
	assert.Empty(t, application.corsConfig().AllowedOrigins)
}

func TestStartStop(t *testing.T) {
	application := newTestApp(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, application.Start(ctx, cancel))
	assert.NoError(t, application.Stop(context.Background()))
}
