package exporter

import (
	"slices"

	"clubportal/pkg/contracts/domain"
)

// ComputeStatistics aggregates a season. Placement figures only consider
// records that have a placement; both stay nil when none has one.
func ComputeStatistics(records []domain.RegattaRecord) domain.SeasonStatistics {
	stats := domain.SeasonStatistics{
		RegattaCount: len(records),
		TotalAmount:  domain.SeasonTotal(records),
	}

	placed, sum := 0, 0
	for _, r := range records {
		stats.TotalRaces += r.RaceCount
		if !r.HasPlacement() {
			continue
		}
		p := *r.Placement
		placed++
		sum += p
		if stats.BestPlacement == nil || p < *stats.BestPlacement {
			best := p
			stats.BestPlacement = &best
		}
	}

	if placed > 0 {
		avg := float64(sum) / float64(placed)
		stats.AveragePlacement = &avg
	}
	return stats
}

// placementSortKey returns the placement, or UnplacedSortKey when absent
func placementSortKey(r domain.RegattaRecord) int {
	if !r.HasPlacement() {
		return UnplacedSortKey
	}
	return *r.Placement
}

// SortByPlacement returns a copy of records ordered by ascending placement.
// Records without a placement sort last; ties keep their input order.
func SortByPlacement(records []domain.RegattaRecord) []domain.RegattaRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.RegattaRecord) int {
		return placementSortKey(a) - placementSortKey(b)
	})
	return sorted
}
