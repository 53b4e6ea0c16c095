package http

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	apierrors "clubportal/internal/errors"
	"clubportal/internal/exporter"
	cpmiddleware "clubportal/internal/middleware"
	"clubportal/internal/services"
	"clubportal/internal/shared/testutil"
	"clubportal/internal/submission"
	"clubportal/pkg/contracts/domain"
)

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, kind domain.ExportKind, export domain.SeasonExport, opts services.ExportOptions) (*exporter.Artifact, error) {
	args := m.Called(ctx, kind, export, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exporter.Artifact), args.Error(1)
}

func (m *MockExportService) Statistics(ctx context.Context, export domain.SeasonExport) domain.SeasonStatistics {
	args := m.Called(ctx, export)
	return args.Get(0).(domain.SeasonStatistics)
}

type MockSeasonService struct {
	mock.Mock
}

func (m *MockSeasonService) Seasons(ctx context.Context) []string {
	return m.Called(ctx).Get(0).([]string)
}

func (m *MockSeasonService) SaveProfile(ctx context.Context, season string, profile domain.ProfileRecord) (domain.ProfileRecord, error) {
	args := m.Called(ctx, season, profile)
	return args.Get(0).(domain.ProfileRecord), args.Error(1)
}

func (m *MockSeasonService) Profile(ctx context.Context, season string) (domain.ProfileRecord, error) {
	args := m.Called(ctx, season)
	return args.Get(0).(domain.ProfileRecord), args.Error(1)
}

func (m *MockSeasonService) Regattas(ctx context.Context, season string) ([]domain.RegattaRecord, error) {
	args := m.Called(ctx, season)
	return args.Get(0).([]domain.RegattaRecord), args.Error(1)
}

func (m *MockSeasonService) AddRegatta(ctx context.Context, season string, record domain.RegattaRecord) (domain.RegattaRecord, error) {
	args := m.Called(ctx, season, record)
	return args.Get(0).(domain.RegattaRecord), args.Error(1)
}

func (m *MockSeasonService) UpdateRegatta(ctx context.Context, season, id string, record domain.RegattaRecord) (domain.RegattaRecord, error) {
	args := m.Called(ctx, season, id, record)
	return args.Get(0).(domain.RegattaRecord), args.Error(1)
}

func (m *MockSeasonService) DeleteRegatta(ctx context.Context, season, id string) error {
	return m.Called(ctx, season, id).Error(0)
}

func (m *MockSeasonService) Export(ctx context.Context, season string, kind domain.ExportKind, opts services.ExportOptions) (*exporter.Artifact, error) {
	args := m.Called(ctx, season, kind, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exporter.Artifact), args.Error(1)
}

func (m *MockSeasonService) Statistics(ctx context.Context, season string) (domain.SeasonStatistics, error) {
	args := m.Called(ctx, season)
	return args.Get(0).(domain.SeasonStatistics), args.Error(1)
}

func (m *MockSeasonService) Submit(ctx context.Context, season string) (submission.Receipt, error) {
	args := m.Called(ctx, season)
	return args.Get(0).(submission.Receipt), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

// handlerDeps returns the validator and error handler shared by the handler tests
func handlerDeps(t *testing.T) (*cpmiddleware.Validator, *apierrors.ErrorHandler, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, store := testutil.NewTestLogger(t)
	return cpmiddleware.NewValidator(logger), apierrors.NewErrorHandler(logger, false), store
}
