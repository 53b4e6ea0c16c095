package exporter

import (
	"strings"
	"unicode"
)

// Filename fallbacks when the sailor name is blank
const (
	fallbackExport = "Export"
	fallbackAntrag = "Antrag"
)

// CSVFilename returns Startgelder_<season>_<name-or-Export>.csv
func CSVFilename(season, sailor string) string {
	return buildFilename("Startgelder", season, sailor, fallbackExport, ".csv")
}

// SummaryPDFFilename returns Startgeld_<season>_<name-or-Antrag>.pdf
func SummaryPDFFilename(season, sailor string) string {
	return buildFilename("Startgeld", season, sailor, fallbackAntrag, ".pdf")
}

// StatisticsPDFFilename returns Statistik_<season>_<name-or-Export>.pdf
func StatisticsPDFFilename(season, sailor string) string {
	return buildFilename("Statistik", season, sailor, fallbackExport, ".pdf")
}

// XLSXFilename returns Startgelder_<season>_<name-or-Export>.xlsx
func XLSXFilename(season, sailor string) string {
	return buildFilename("Startgelder", season, sailor, fallbackExport, ".xlsx")
}

// BundleFilename returns Startgeld-Export_<season>_<name-or-Export>.zip
func BundleFilename(season, sailor string) string {
	return buildFilename("Startgeld-Export", season, sailor, fallbackExport, ".zip")
}

func buildFilename(prefix, season, sailor, fallback, ext string) string {
	name := SanitizeFilenamePart(sailor)
	if name == "" {
		name = fallback
	}
	return prefix + "_" + SanitizeFilenamePart(season) + "_" + name + ext
}

// SanitizeFilenamePart makes s safe for use inside a filename. Whitespace
// runs become a single underscore; path separators and characters that
// Windows rejects are dropped.
func SanitizeFilenamePart(s string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), ".")
}
