package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"clubportal/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetStartgelder = "Startgelder"
	SheetStatistik   = "Statistik"
)

const euroNumFmt = `#,##0.00 "€"`

// XLSXWriter renders the season as a workbook with a record sheet and a
// statistics sheet. Amounts are written as numbers so spreadsheets can sum them.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// WriteWorkbook writes the workbook to out
func (x *XLSXWriter) WriteWorkbook(out io.Writer, season string, profile domain.ProfileRecord, records []domain.RegattaRecord) error {
	x.logger.Debug("Writing workbook",
		slog.String("season", season),
		slog.Int("record_count", len(records)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetStartgelder); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetStatistik); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	numFmt := euroNumFmt
	euro, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := x.writeRecords(f, season, profile, records, bold, euro); err != nil {
		return err
	}
	if err := x.writeStatistics(f, records, bold, euro); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (x *XLSXWriter) writeRecords(f *excelize.File, season string, profile domain.ProfileRecord, records []domain.RegattaRecord, bold, euro int) error {
	sheet := SheetStartgelder

	preamble := [][]interface{}{
		{"Startgelder Saison " + orPlaceholder(season)},
		{"Segler/in:", orPlaceholder(profile.Name)},
		{"Segelnummer:", orPlaceholder(profile.SailNumber)},
	}
	for i, row := range preamble {
		if err := setRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}

	headerRow := 5
	header := make([]interface{}, len(StartgeldCSVHeaders))
	for i, h := range StartgeldCSVHeaders {
		header[i] = h
	}
	if err := setRow(f, sheet, headerRow, header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A5", "H5", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range records {
		row := []interface{}{
			i + 1,
			orPlaceholder(r.RegattaName),
			orPlaceholder(r.Date),
			optionalCell(r.Placement),
			optionalCell(r.TotalParticipants),
			r.RaceCount,
			strings.Join(r.CrewNames(), ", "),
			r.InvoiceAmount.InexactFloat64(),
		}
		if err := setRow(f, sheet, headerRow+1+i, row); err != nil {
			return err
		}
	}

	totalRow := headerRow + len(records) + 2
	totalCell, _ := excelize.CoordinatesToCellName(7, totalRow)
	amountCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	if err := f.SetCellValue(sheet, totalCell, "Gesamtbetrag"); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellValue(sheet, amountCell, domain.SeasonTotal(records).InexactFloat64()); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellStyle(sheet, totalCell, totalCell, bold); err != nil {
		return fmt.Errorf("failed to style total: %w", err)
	}

	firstAmount, _ := excelize.CoordinatesToCellName(8, headerRow+1)
	if err := f.SetCellStyle(sheet, firstAmount, amountCell, euro); err != nil {
		return fmt.Errorf("failed to style amounts: %w", err)
	}

	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "G", "G", 30); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return f.SetColWidth(sheet, "H", "H", 14)
}

func (x *XLSXWriter) writeStatistics(f *excelize.File, records []domain.RegattaRecord, bold, euro int) error {
	sheet := SheetStatistik
	stats := ComputeStatistics(records)

	rows := [][]interface{}{
		{"Regatten", stats.RegattaCount},
		{"Startgelder", stats.TotalAmount.InexactFloat64()},
		{"Beste Platzierung", formatPlatz(stats.BestPlacement)},
		{"Durchschnittliche Platzierung", formatAveragePlatz(stats.AveragePlacement)},
		{"Wettfahrten", stats.TotalRaces},
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "A5", bold); err != nil {
		return fmt.Errorf("failed to style labels: %w", err)
	}
	if err := f.SetCellStyle(sheet, "B2", "B2", euro); err != nil {
		return fmt.Errorf("failed to style amount: %w", err)
	}
	return f.SetColWidth(sheet, "A", "A", 30)
}

// setRow writes values into row (1-based) starting at column A
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// optionalCell yields the int value or Placeholder text
func optionalCell(v *int) interface{} {
	if v == nil || *v <= 0 {
		return Placeholder
	}
	return *v
}
