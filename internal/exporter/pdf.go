package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"clubportal/pkg/contracts/domain"
)

// Page geometry in millimetres (A4 portrait)
const (
	pdfMargin       = 15.0
	pdfBottomMargin = 20.0
	pdfRowHeight    = 7.0
	pdfFont         = "Helvetica"
	pdfDateLayout   = "02.01.2006"
)

// pdfColumn describes one table column
type pdfColumn struct {
	title string
	width float64
	align string
}

var summaryColumns = []pdfColumn{
	{"Nr", 10, "C"},
	{"Regatta", 48, "L"},
	{"Datum", 22, "C"},
	{"Platz", 22, "C"},
	{"Wettf.", 14, "C"},
	{"Crew", 40, "L"},
	{"Betrag", 24, "R"},
}

var statisticsColumns = []pdfColumn{
	{"Platz", 25, "C"},
	{"Regatta", 70, "L"},
	{"Datum", 25, "C"},
	{"Wettfahrten", 25, "C"},
	{"Betrag", 35, "R"},
}

// PDFOptions configures the PDF documents
type PDFOptions struct {
	ClubName      string
	FooterCaption string
	// Compress deflates page streams. Tests turn it off to search the raw output.
	Compress bool
	Now      func() time.Time
}

// PDFRenderer renders the summary and statistics documents
type PDFRenderer struct {
	opts   PDFOptions
	logger *slog.Logger
}

// NewPDFRenderer creates a renderer
func NewPDFRenderer(opts PDFOptions, logger *slog.Logger) *PDFRenderer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{
		opts:   opts,
		logger: logger.With(slog.String("component", "pdf_renderer")),
	}
}

// pdfDoc bundles a document with its cp1252 translator
type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func (r *PDFRenderer) newDoc(title, author string) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	pdf.SetCompression(r.opts.Compress)
	pdf.SetCreationDate(r.opts.Now())
	pdf.SetTitle(title, true)
	pdf.SetAuthor(author, true)
	pdf.SetCreator("clubportal", false)

	doc := &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	caption := r.opts.FooterCaption
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, doc.tr(caption), "", 0, "L", false, 0, "")
		pdf.SetX(pdfMargin)
		pdf.CellFormat(0, 5, "Seite "+strconv.Itoa(pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	return doc
}

// text places s at a fixed position
func (d *pdfDoc) text(x, y float64, style string, size float64, s string) {
	d.SetFont(pdfFont, style, size)
	d.Text(x, y, d.tr(s))
}

// labelBlock writes label/value pairs starting at a fixed position
func (d *pdfDoc) labelBlock(x, y float64, pairs [][2]string) {
	for i, p := range pairs {
		line := y + float64(i)*6
		d.text(x, line, "B", 10, p[0])
		d.text(x+38, line, "", 10, p[1])
	}
}

// fit shortens s with "..." until it fits into a cell of width w
func (d *pdfDoc) fit(s string, w float64) string {
	s = d.tr(s)
	limit := w - 2
	if d.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && d.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func (d *pdfDoc) tableHeader(cols []pdfColumn) {
	d.SetFont(pdfFont, "B", 9)
	d.SetFillColor(220, 230, 241)
	for _, c := range cols {
		d.CellFormat(c.width, pdfRowHeight, d.tr(c.title), "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)
}

// table writes header and rows, repeating the header after a page break
func (d *pdfDoc) table(cols []pdfColumn, rows [][]string) {
	d.tableHeader(cols)
	_, pageH := d.GetPageSize()

	for _, row := range rows {
		if d.GetY()+pdfRowHeight > pageH-pdfBottomMargin {
			d.AddPage()
			d.tableHeader(cols)
		}
		d.SetFont(pdfFont, "", 9)
		for i, c := range cols {
			d.CellFormat(c.width, pdfRowHeight, d.fit(row[i], c.width), "1", 0, c.align, false, 0, "")
		}
		d.Ln(-1)
	}
}

// WriteSummary renders the reimbursement application: header, sailor and
// banking blocks, the regatta table, the total and a signature block.
func (r *PDFRenderer) WriteSummary(w io.Writer, season string, profile domain.ProfileRecord, records []domain.RegattaRecord) error {
	r.logger.Debug("Rendering summary PDF",
		slog.String("season", season),
		slog.Int("record_count", len(records)))

	title := "Antrag auf Erstattung von Startgeldern"
	doc := r.newDoc(title+" "+season, profile.Name)

	doc.text(pdfMargin, 22, "B", 16, title)
	doc.text(pdfMargin, 30, "", 11, orPlaceholder(r.opts.ClubName)+" - Saison "+orPlaceholder(season))

	doc.labelBlock(pdfMargin, 44, [][2]string{
		{"Segler/in:", orPlaceholder(profile.Name)},
		{"Segelnummer:", orPlaceholder(profile.SailNumber)},
		{"Bootsklasse:", orPlaceholder(string(profile.BoatClass))},
	})
	doc.labelBlock(110, 44, [][2]string{
		{"Kontoinhaber:", orPlaceholder(profile.Holder())},
		{"IBAN:", orPlaceholder(profile.IBAN)},
		{"BIC:", orPlaceholder(profile.BIC)},
	})

	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			orPlaceholder(rec.RegattaName),
			orPlaceholder(rec.Date),
			formatPlacementRatio(rec.Placement, rec.TotalParticipants),
			strconv.Itoa(rec.RaceCount),
			strings.Join(rec.CrewNames(), ", "),
			formatEuro(rec.InvoiceAmount),
		})
	}

	doc.SetXY(pdfMargin, 66)
	doc.table(summaryColumns, rows)

	doc.Ln(4)
	doc.SetFont(pdfFont, "B", 11)
	doc.CellFormat(0, pdfRowHeight, doc.tr("Gesamtbetrag: "+formatEuro(domain.SeasonTotal(records))), "", 1, "R", false, 0, "")

	// signature block
	_, pageH := doc.GetPageSize()
	if doc.GetY()+30 > pageH-pdfBottomMargin {
		doc.AddPage()
	}
	y := doc.GetY() + 18
	doc.text(pdfMargin, y, "", 10, "Datum: "+r.opts.Now().Format(pdfDateLayout))
	doc.Line(110, y, 195, y)
	doc.text(110, y+5, "", 8, "Unterschrift")

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render summary pdf: %w", err)
	}
	return nil
}

// WriteStatistics renders the season statistics: five aggregate figures and
// the records ordered by placement.
func (r *PDFRenderer) WriteStatistics(w io.Writer, season string, profile domain.ProfileRecord, records []domain.RegattaRecord) error {
	r.logger.Debug("Rendering statistics PDF",
		slog.String("season", season),
		slog.Int("record_count", len(records)))

	stats := ComputeStatistics(records)

	title := "Saisonstatistik " + orPlaceholder(season)
	doc := r.newDoc(title, profile.Name)

	doc.text(pdfMargin, 22, "B", 16, title)
	doc.text(pdfMargin, 30, "", 11, orPlaceholder(profile.Name)+" ("+orPlaceholder(profile.SailNumber)+")")

	figures := [][2]string{
		{"Regatten:", strconv.Itoa(stats.RegattaCount)},
		{"Startgelder:", formatEuro(stats.TotalAmount)},
		{"Beste Platzierung:", formatPlatz(stats.BestPlacement)},
		{"Durchschnitt:", formatAveragePlatz(stats.AveragePlacement)},
		{"Wettfahrten:", strconv.Itoa(stats.TotalRaces)},
	}
	doc.labelBlock(pdfMargin, 44, figures)

	doc.text(pdfMargin, 80, "B", 12, "Ergebnisse nach Platzierung")

	sorted := SortByPlacement(records)
	rows := make([][]string, 0, len(sorted))
	for _, rec := range sorted {
		rows = append(rows, []string{
			formatPlacementRatio(rec.Placement, rec.TotalParticipants),
			orPlaceholder(rec.RegattaName),
			orPlaceholder(rec.Date),
			strconv.Itoa(rec.RaceCount),
			formatEuro(rec.InvoiceAmount),
		})
	}

	doc.SetXY(pdfMargin, 85)
	doc.table(statisticsColumns, rows)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render statistics pdf: %w", err)
	}
	return nil
}
