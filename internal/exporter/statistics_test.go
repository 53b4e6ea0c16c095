package exporter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/pkg/contracts/domain"
)

func names(records []domain.RegattaRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RegattaName
	}
	return out
}

func TestSortByPlacement(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.RegattaRecord
		want    []string
	}{
		{
			name: "absent placement sorts last",
			records: []domain.RegattaRecord{
				record("third", intPtr(3), "1"),
				record("none", nil, "1"),
				record("first", intPtr(1), "1"),
			},
			want: []string{"first", "third", "none"},
		},
		{
			name: "ties keep input order",
			records: []domain.RegattaRecord{
				record("a", intPtr(2), "1"),
				record("x", nil, "1"),
				record("b", intPtr(2), "1"),
				record("y", nil, "1"),
				record("c", intPtr(1), "1"),
			},
			want: []string{"c", "a", "b", "x", "y"},
		},
		{
			name: "empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(SortByPlacement(tt.records)))
		})
	}
}

func TestSortByPlacement_DoesNotMutateInput(t *testing.T) {
	in := []domain.RegattaRecord{record("b", intPtr(2), "1"), record("a", intPtr(1), "1")}
	_ = SortByPlacement(in)
	assert.Equal(t, []string{"b", "a"}, names(in))
}

func TestComputeStatistics(t *testing.T) {
	t.Run("mixed placements", func(t *testing.T) {
		records := []domain.RegattaRecord{
			record("a", intPtr(3), "10.50"),
			record("b", nil, "20"),
			record("c", intPtr(2), "5.25"),
		}
		stats := ComputeStatistics(records)

		assert.Equal(t, 3, stats.RegattaCount)
		assert.True(t, decimal.RequireFromString("35.75").Equal(stats.TotalAmount))
		assert.Equal(t, 9, stats.TotalRaces)
		require.NotNil(t, stats.BestPlacement)
		assert.Equal(t, 2, *stats.BestPlacement)
		require.NotNil(t, stats.AveragePlacement)
		assert.InDelta(t, 2.5, *stats.AveragePlacement, 1e-9)
	})

	t.Run("no placements", func(t *testing.T) {
		stats := ComputeStatistics([]domain.RegattaRecord{record("a", nil, "1")})
		assert.Nil(t, stats.BestPlacement)
		assert.Nil(t, stats.AveragePlacement)
		assert.Equal(t, Placeholder, formatPlatz(stats.BestPlacement))
		assert.Equal(t, Placeholder, formatAveragePlatz(stats.AveragePlacement))
	})

	t.Run("empty season", func(t *testing.T) {
		stats := ComputeStatistics(nil)
		assert.Equal(t, 0, stats.RegattaCount)
		assert.True(t, stats.TotalAmount.IsZero())
		assert.Equal(t, 0, stats.TotalRaces)
	})
}
