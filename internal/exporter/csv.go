package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"clubportal/pkg/contracts/domain"
)

// CSV layout of the Startgeld export
const (
	csvDelimiter     = ';'
	csvCrewSeparator = "; "
)

// singleLine folds line breaks in free text so a record stays on one line
var singleLine = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StartgeldCSVHeaders are the column headers of the Startgeld export
var StartgeldCSVHeaders = []string{
	"Nr", "Regatta", "Datum", "Platz", "Teilnehmer", "Wettfahrten", "Crew", "Betrag (EUR)",
}

// CSVOptions configures the CSV dialect
type CSVOptions struct {
	// QuoteFields writes RFC 4180 quoting through encoding/csv. When false
	// fields are joined verbatim, so crew names joined by "; " stay unquoted
	// inside the ';' delimited file.
	QuoteFields bool
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	opts   CSVOptions
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(opts CSVOptions, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		opts:   opts,
		logger: logger.With(slog.String("component", "csv_writer")),
	}
}

// WriteOptions configures one CSV document
type WriteOptions struct {
	Preamble  []string // free-text lines before the table
	Headers   []string
	Records   [][]string
	Footer    []string // free-text lines after the table
	BOMPrefix bool     // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a complete document to out
func (w *CSVWriter) WriteCSV(out io.Writer, options WriteOptions) error {
	bw := bufio.NewWriter(out)

	if options.BOMPrefix {
		if _, err := bw.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	rows := w.newRowWriter(bw)

	for _, line := range options.Preamble {
		if err := rows.text(line); err != nil {
			return fmt.Errorf("failed to write preamble: %w", err)
		}
	}

	if len(options.Headers) > 0 {
		if err := rows.row(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := rows.row(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	for _, line := range options.Footer {
		if err := rows.text(line); err != nil {
			return fmt.Errorf("failed to write footer: %w", err)
		}
	}

	if err := rows.flush(); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteStartgeld writes the season's Startgeld export: title, sailor and
// sail number lines, a blank line, the table, a blank line and the total.
func (w *CSVWriter) WriteStartgeld(out io.Writer, season string, profile domain.ProfileRecord, records []domain.RegattaRecord) error {
	w.logger.Debug("Writing Startgeld CSV",
		slog.String("season", season),
		slog.Int("record_count", len(records)),
		slog.Bool("quote_fields", w.opts.QuoteFields))

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, startgeldRow(i+1, r))
	}

	return w.WriteCSV(out, WriteOptions{
		Preamble: []string{
			"Startgelder Saison " + orPlaceholder(season),
			"Segler/in: " + orPlaceholder(singleLine.Replace(profile.Name)),
			"Segelnummer: " + orPlaceholder(singleLine.Replace(profile.SailNumber)),
			"",
		},
		Headers: StartgeldCSVHeaders,
		Records: rows,
		Footer: []string{
			"",
			"Gesamtbetrag: " + formatAmountDE(domain.SeasonTotal(records)) + " EUR",
		},
		BOMPrefix: true,
	})
}

func startgeldRow(n int, r domain.RegattaRecord) []string {
	return []string{
		strconv.Itoa(n),
		orPlaceholder(singleLine.Replace(r.RegattaName)),
		orPlaceholder(singleLine.Replace(r.Date)),
		formatOptionalInt(r.Placement),
		formatOptionalInt(r.TotalParticipants),
		strconv.Itoa(r.RaceCount),
		singleLine.Replace(strings.Join(r.CrewNames(), csvCrewSeparator)),
		formatAmountDE(r.InvoiceAmount),
	}
}

// rowWriter hides the two CSV dialects behind one interface
type rowWriter struct {
	raw    *bufio.Writer
	quoted *csv.Writer
}

func (w *CSVWriter) newRowWriter(bw *bufio.Writer) *rowWriter {
	rw := &rowWriter{raw: bw}
	if w.opts.QuoteFields {
		rw.quoted = csv.NewWriter(bw)
		rw.quoted.Comma = csvDelimiter
	}
	return rw
}

// row writes one delimited record
func (rw *rowWriter) row(fields []string) error {
	if rw.quoted != nil {
		return rw.quoted.Write(fields)
	}
	_, err := rw.raw.WriteString(strings.Join(fields, string(csvDelimiter)) + "\n")
	return err
}

// text writes one free-text line as a single field
func (rw *rowWriter) text(line string) error {
	if rw.quoted != nil {
		return rw.quoted.Write([]string{line})
	}
	_, err := rw.raw.WriteString(line + "\n")
	return err
}

func (rw *rowWriter) flush() error {
	if rw.quoted == nil {
		return nil
	}
	rw.quoted.Flush()
	return rw.quoted.Error()
}
