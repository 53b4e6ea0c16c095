package exporter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountFormatting(t *testing.T) {
	tests := []struct {
		in     string
		iso    string
		german string
		euro   string
	}{
		{"0", "0.00", "0,00", "0.00 €"},
		{"45.5", "45.50", "45,50", "45.50 €"},
		{"1234.567", "1234.57", "1234,57", "1234.57 €"},
		{"0.005", "0.01", "0,01", "0.01 €"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.iso, formatAmount(d))
			assert.Equal(t, tt.german, formatAmountDE(d))
			assert.Equal(t, tt.euro, formatEuro(d))
		})
	}
}

func TestPlacementFormatting(t *testing.T) {
	avg := 2.5

	assert.Equal(t, "2. / 40", formatPlacementRatio(intPtr(2), intPtr(40)))
	assert.Equal(t, "- / 40", formatPlacementRatio(nil, intPtr(40)))
	assert.Equal(t, "3. / -", formatPlacementRatio(intPtr(3), nil))
	assert.Equal(t, "- / -", formatPlacementRatio(nil, nil))

	assert.Equal(t, "1. Platz", formatPlatz(intPtr(1)))
	assert.Equal(t, "-", formatPlatz(nil))
	assert.Equal(t, "-", formatPlatz(intPtr(0)))
	assert.Equal(t, "2,5 Platz", formatAveragePlatz(&avg))
	whole := 2.0
	assert.Equal(t, "2,0 Platz", formatAveragePlatz(&whole))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "-", orPlaceholder("   "))
	assert.Equal(t, "x", orPlaceholder(" x "))
	assert.Equal(t, BICNotProvided, orBIC(""))
	assert.Equal(t, "GENODEF1S10", orBIC(" genodef1s10 "))
	assert.Equal(t, "-", formatOptionalInt(nil))
	assert.Equal(t, "7", formatOptionalInt(intPtr(7)))
}

func TestNormalizeIBAN(t *testing.T) {
	assert.Equal(t, "DE89370400440532013000", NormalizeIBAN(" de89 3704\t0044 0532\n0130 00 "))
	assert.Equal(t, "NOT-AN-IBAN", NormalizeIBAN("not-an-iban"))
	assert.Equal(t, "", NormalizeIBAN("  "))
}
