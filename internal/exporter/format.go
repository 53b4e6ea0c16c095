package exporter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Placeholder policy for missing values. Formatters never fail on missing
// data; they substitute these values instead.
const (
	// Placeholder stands in for any absent text or number
	Placeholder = "-"
	// BICNotProvided is emitted for an absent BIC in SEPA documents
	BICNotProvided = "NOTPROVIDED"
	// UnplacedSortKey orders records without a placement after all placed ones
	UnplacedSortKey = 999
)

// orPlaceholder returns s trimmed, or Placeholder when s is blank
func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Placeholder
	}
	return s
}

// orBIC returns the BIC trimmed and uppercased, or BICNotProvided
func orBIC(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return BICNotProvided
	}
	return strings.ToUpper(s)
}

// formatOptionalInt renders a positive int, or Placeholder when absent
func formatOptionalInt(v *int) string {
	if v == nil || *v <= 0 {
		return Placeholder
	}
	return strconv.Itoa(*v)
}

// formatAmount renders d with exactly 2 decimal places and '.' separator
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatAmountDE renders d with exactly 2 decimal places and ',' separator
func formatAmountDE(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// formatEuro renders d as "X.XX €"
func formatEuro(d decimal.Decimal) string {
	return formatAmount(d) + " €"
}

// formatPlacementRatio renders "<placement>. / <participants>"; an absent
// placement drops the ordinal dot
func formatPlacementRatio(placement, participants *int) string {
	p := formatOptionalInt(placement)
	if p != Placeholder {
		p += "."
	}
	return p + " / " + formatOptionalInt(participants)
}

// formatPlatz renders "N. Platz", or Placeholder when absent
func formatPlatz(v *int) string {
	if v == nil || *v <= 0 {
		return Placeholder
	}
	return fmt.Sprintf("%d. Platz", *v)
}

// formatAveragePlatz renders an average placement with one German decimal
// and no ordinal dot, "2,5 Platz"
func formatAveragePlatz(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strings.Replace(strconv.FormatFloat(*v, 'f', 1, 64), ".", ",", 1) + " Platz"
}

// NormalizeIBAN strips all whitespace and uppercases the result.
// No checksum or country validation is done.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, iban))
}
