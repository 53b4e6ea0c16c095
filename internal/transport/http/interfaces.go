package http

import (
	"context"

	"clubportal/internal/exporter"
	"clubportal/internal/services"
	"clubportal/internal/submission"
	"clubportal/pkg/contracts/domain"
)

// ExportServiceInterface renders exports of a posted season
type ExportServiceInterface interface {
	Export(ctx context.Context, kind domain.ExportKind, export domain.SeasonExport, opts services.ExportOptions) (*exporter.Artifact, error)
	Statistics(ctx context.Context, export domain.SeasonExport) domain.SeasonStatistics
}

// SeasonServiceInterface manages stored seasons
type SeasonServiceInterface interface {
	Seasons(ctx context.Context) []string
	SaveProfile(ctx context.Context, season string, profile domain.ProfileRecord) (domain.ProfileRecord, error)
	Profile(ctx context.Context, season string) (domain.ProfileRecord, error)
	Regattas(ctx context.Context, season string) ([]domain.RegattaRecord, error)
	AddRegatta(ctx context.Context, season string, record domain.RegattaRecord) (domain.RegattaRecord, error)
	UpdateRegatta(ctx context.Context, season, id string, record domain.RegattaRecord) (domain.RegattaRecord, error)
	DeleteRegatta(ctx context.Context, season, id string) error
	Export(ctx context.Context, season string, kind domain.ExportKind, opts services.ExportOptions) (*exporter.Artifact, error)
	Statistics(ctx context.Context, season string) (domain.SeasonStatistics, error)
	Submit(ctx context.Context, season string) (submission.Receipt, error)
}

// HealthServiceInterface reports service health
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
}
