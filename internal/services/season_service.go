package services

import (
	"context"
	"fmt"
	"log/slog"

	"clubportal/internal/exporter"
	"clubportal/internal/infrastructure"
	"clubportal/internal/season"
	"clubportal/internal/submission"
	"clubportal/pkg/contracts/domain"
)

// SeasonService manages the stored seasons and runs exports and online
// submissions against them
type SeasonService struct {
	store      season.Store
	exports    *ExportService
	submission *SubmissionService
	logger     *slog.Logger
}

// NewSeasonService creates a season service
func NewSeasonService(store season.Store, exports *ExportService, submissions *SubmissionService, logger *slog.Logger) *SeasonService {
	return &SeasonService{
		store:      store,
		exports:    exports,
		submission: submissions,
		logger:     infrastructure.WithComponent(logger, "season_service"),
	}
}

// Seasons lists the stored seasons
func (s *SeasonService) Seasons(ctx context.Context) []string {
	return s.store.Seasons()
}

// SaveProfile stores the sailor profile for season
func (s *SeasonService) SaveProfile(ctx context.Context, name string, profile domain.ProfileRecord) (domain.ProfileRecord, error) {
	if err := s.store.SaveProfile(name, profile); err != nil {
		return domain.ProfileRecord{}, fmt.Errorf("failed to save profile: %w", err)
	}
	s.logger.InfoContext(ctx, "Profile saved",
		slog.String("season", name),
		slog.Bool("has_iban", profile.HasIBAN()))
	return profile, nil
}

// Profile returns the sailor profile for season
func (s *SeasonService) Profile(ctx context.Context, name string) (domain.ProfileRecord, error) {
	return s.store.Profile(name)
}

// Regattas lists the season's records in entry order
func (s *SeasonService) Regattas(ctx context.Context, name string) ([]domain.RegattaRecord, error) {
	return s.store.Regattas(name)
}

// AddRegatta appends a record
func (s *SeasonService) AddRegatta(ctx context.Context, name string, record domain.RegattaRecord) (domain.RegattaRecord, error) {
	stored, err := s.store.AddRegatta(name, record)
	if err != nil {
		return domain.RegattaRecord{}, fmt.Errorf("failed to add regatta: %w", err)
	}
	s.logger.InfoContext(ctx, "Regatta added",
		slog.String("season", name),
		slog.String("regatta_id", stored.ID),
		slog.String("regatta", stored.RegattaName))
	return stored, nil
}

// UpdateRegatta replaces a record
func (s *SeasonService) UpdateRegatta(ctx context.Context, name, id string, record domain.RegattaRecord) (domain.RegattaRecord, error) {
	stored, err := s.store.UpdateRegatta(name, id, record)
	if err != nil {
		return domain.RegattaRecord{}, fmt.Errorf("failed to update regatta: %w", err)
	}
	s.logger.InfoContext(ctx, "Regatta updated",
		slog.String("season", name),
		slog.String("regatta_id", id))
	return stored, nil
}

// DeleteRegatta removes a record
func (s *SeasonService) DeleteRegatta(ctx context.Context, name, id string) error {
	if err := s.store.DeleteRegatta(name, id); err != nil {
		return fmt.Errorf("failed to delete regatta: %w", err)
	}
	s.logger.InfoContext(ctx, "Regatta deleted",
		slog.String("season", name),
		slog.String("regatta_id", id))
	return nil
}

// Export renders kind from the stored season
func (s *SeasonService) Export(ctx context.Context, name string, kind domain.ExportKind, opts ExportOptions) (*exporter.Artifact, error) {
	snapshot, err := s.store.Snapshot(name)
	if err != nil {
		return nil, err
	}
	return s.exports.Export(ctx, kind, snapshot, opts)
}

// Statistics computes the stored season's figures
func (s *SeasonService) Statistics(ctx context.Context, name string) (domain.SeasonStatistics, error) {
	snapshot, err := s.store.Snapshot(name)
	if err != nil {
		return domain.SeasonStatistics{}, err
	}
	return s.exports.Statistics(ctx, snapshot), nil
}

// Submit sends the stored season as an online application
func (s *SeasonService) Submit(ctx context.Context, name string) (submission.Receipt, error) {
	snapshot, err := s.store.Snapshot(name)
	if err != nil {
		return submission.Receipt{}, err
	}
	return s.submission.Submit(ctx, snapshot)
}
