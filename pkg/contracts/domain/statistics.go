package domain

import "github.com/shopspring/decimal"

// SeasonStatistics aggregates a season's regatta records. Never persisted.
type SeasonStatistics struct {
	RegattaCount     int             `json:"regattaCount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TotalRaces       int             `json:"totalRaces"`
	BestPlacement    *int            `json:"bestPlacement,omitempty"`
	AveragePlacement *float64        `json:"averagePlacement,omitempty"`
}
