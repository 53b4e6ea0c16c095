package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubportal/internal/infrastructure"
	"clubportal/internal/submission"
	"clubportal/pkg/contracts/domain"
)

// Relay delivers an application to the club
type Relay interface {
	Configured() bool
	Submit(ctx context.Context, app submission.Application) (submission.Receipt, error)
}

// SubmissionService submits a season's application online
type SubmissionService struct {
	relay   Relay
	metrics *infrastructure.BusinessMetrics
	now     func() time.Time
	logger  *slog.Logger
}

// NewSubmissionService creates the service. metrics may be nil.
func NewSubmissionService(relay Relay, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		relay:   relay,
		metrics: metrics,
		now:     time.Now,
		logger:  infrastructure.WithComponent(logger, "submission_service"),
	}
}

// Submit checks the preconditions and posts the application once. Relay
// failures are logged and returned as ErrSubmissionFailed.
func (s *SubmissionService) Submit(ctx context.Context, export domain.SeasonExport) (submission.Receipt, error) {
	if s.relay == nil || !s.relay.Configured() {
		return submission.Receipt{}, ErrSubmissionNotConfigured
	}
	if len(export.Regattas) == 0 {
		return submission.Receipt{}, ErrNoRecords
	}
	if !export.Profile.HasIBAN() {
		return submission.Receipt{}, ErrMissingIBAN
	}

	app := submission.Application{
		Season:      export.Season,
		Profile:     export.Profile,
		Regattas:    export.Regattas,
		Total:       domain.SeasonTotal(export.Regattas),
		SubmittedAt: s.now().UTC(),
	}

	receipt, err := s.relay.Submit(ctx, app)
	infrastructure.RecordSubmissionMetrics(ctx, s.metrics, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Online submission failed",
			slog.String("season", export.Season),
			slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		return submission.Receipt{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	s.logger.InfoContext(ctx, "Online submission accepted",
		slog.String("season", export.Season),
		slog.String("receipt_id", receipt.ID),
		slog.String("total", app.Total.StringFixed(2)))
	return receipt, nil
}
