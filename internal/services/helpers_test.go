package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"clubportal/internal/config"
	"clubportal/internal/shared/testutil"
	"clubportal/internal/submission"
)

// MockRelay is a mock for the Relay interface
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockRelay) Submit(ctx context.Context, app submission.Application) (submission.Receipt, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(submission.Receipt), args.Error(1)
}

var fixedNow = time.Date(2024, 6, 30, 14, 5, 9, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// testConfig returns defaults with a configured club account and
// uncompressed PDFs
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Creditor = config.CreditorConfig{
		Name: "Segel-Club Musterstadt e.V.",
		IBAN: "de02 1203 0000 0000 2020 51",
		BIC:  "BYLADEM1001",
	}
	cfg.Export.CompressPDF = false
	return cfg
}

func newTestExportService(t *testing.T, cfg *config.Config) *ExportService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewExportService(cfg, logger, WithClock(fixedClock))
}
