package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"clubportal/internal/config"
	"clubportal/internal/exporter"
	"clubportal/internal/infrastructure"
	"clubportal/pkg/contracts/domain"
)

// ExportOptions tunes a single export call
type ExportOptions struct {
	// Filename overrides the default SEPA filename
	Filename string
}

// ExportService turns a season into download artifacts. It checks the
// export preconditions, derives the payment instruction and wraps every
// formatter call in a span, metrics and logs.
type ExportService struct {
	csv  *exporter.CSVWriter
	pdf  *exporter.PDFRenderer
	sepa *exporter.SEPAGenerator
	xlsx *exporter.XLSXWriter

	creditor     config.CreditorConfig
	sepaFilename string
	now          func() time.Time

	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// ExportServiceOption configures an ExportService
type ExportServiceOption func(*exportServiceOptions)

type exportServiceOptions struct {
	now     func() time.Time
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
}

// WithClock replaces time.Now, used for message IDs, dates and archive timestamps
func WithClock(now func() time.Time) ExportServiceOption {
	return func(o *exportServiceOptions) { o.now = now }
}

// WithTracer sets the tracer; defaults to the global provider
func WithTracer(tracer trace.Tracer) ExportServiceOption {
	return func(o *exportServiceOptions) { o.tracer = tracer }
}

// WithMetrics enables export metrics
func WithMetrics(metrics *infrastructure.BusinessMetrics) ExportServiceOption {
	return func(o *exportServiceOptions) { o.metrics = metrics }
}

// NewExportService creates the export service from the export and creditor configuration
func NewExportService(cfg *config.Config, logger *slog.Logger, opts ...ExportServiceOption) *ExportService {
	o := exportServiceOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(infrastructure.ServiceName)
	}
	logger = infrastructure.WithComponent(logger, "export_service")

	sepaFilename := cfg.Export.SEPAFilename
	if sepaFilename == "" {
		sepaFilename = config.DefaultSEPAFilename
	}

	return &ExportService{
		csv: exporter.NewCSVWriter(exporter.CSVOptions{QuoteFields: cfg.Export.CSVQuoteFields}, logger),
		pdf: exporter.NewPDFRenderer(exporter.PDFOptions{
			ClubName:      cfg.Export.ClubName,
			FooterCaption: cfg.Export.FooterCaption,
			Compress:      cfg.Export.CompressPDF,
			Now:           o.now,
		}, logger),
		sepa: exporter.NewSEPAGenerator(exporter.SEPAOptions{
			MessagePrefix:   cfg.Export.SEPAMessagePrefix,
			EndToEndPrefix:  cfg.Export.SEPAEndToEndPrefix,
			UniqueMessageID: cfg.Export.SEPAUniqueMsgID,
			Now:             o.now,
		}),
		xlsx:         exporter.NewXLSXWriter(logger),
		creditor:     cfg.Creditor,
		sepaFilename: sepaFilename,
		now:          o.now,
		tracer:       o.tracer,
		metrics:      o.metrics,
		logger:       logger,
	}
}

// Export dispatches to the exporter for kind
func (s *ExportService) Export(ctx context.Context, kind domain.ExportKind, export domain.SeasonExport, opts ExportOptions) (*exporter.Artifact, error) {
	switch kind {
	case domain.ExportKindCSV:
		return s.CSV(ctx, export)
	case domain.ExportKindSummaryPDF:
		return s.SummaryPDF(ctx, export)
	case domain.ExportKindStatisticsPDF:
		return s.StatisticsPDF(ctx, export)
	case domain.ExportKindSEPA:
		return s.SEPA(ctx, export, opts.Filename)
	case domain.ExportKindXLSX:
		return s.XLSX(ctx, export)
	case domain.ExportKindBundle:
		return s.Bundle(ctx, export)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExportKind, kind)
	}
}

// CSV renders the Startgeld CSV
func (s *ExportService) CSV(ctx context.Context, export domain.SeasonExport) (*exporter.Artifact, error) {
	return s.run(ctx, domain.ExportKindCSV, export, requireRecords, func(w io.Writer) (string, error) {
		if err := s.csv.WriteStartgeld(w, export.Season, export.Profile, export.Regattas); err != nil {
			return "", err
		}
		return exporter.CSVFilename(export.Season, export.Profile.Name), nil
	})
}

// SummaryPDF renders the reimbursement application
func (s *ExportService) SummaryPDF(ctx context.Context, export domain.SeasonExport) (*exporter.Artifact, error) {
	return s.run(ctx, domain.ExportKindSummaryPDF, export, requireRecords, func(w io.Writer) (string, error) {
		if err := s.pdf.WriteSummary(w, export.Season, export.Profile, export.Regattas); err != nil {
			return "", err
		}
		return exporter.SummaryPDFFilename(export.Season, export.Profile.Name), nil
	})
}

// StatisticsPDF renders the season statistics document
func (s *ExportService) StatisticsPDF(ctx context.Context, export domain.SeasonExport) (*exporter.Artifact, error) {
	return s.run(ctx, domain.ExportKindStatisticsPDF, export, requireRecords, func(w io.Writer) (string, error) {
		if err := s.pdf.WriteStatistics(w, export.Season, export.Profile, export.Regattas); err != nil {
			return "", err
		}
		return exporter.StatisticsPDFFilename(export.Season, export.Profile.Name), nil
	})
}

// XLSX renders the season workbook
func (s *ExportService) XLSX(ctx context.Context, export domain.SeasonExport) (*exporter.Artifact, error) {
	return s.run(ctx, domain.ExportKindXLSX, export, requireRecords, func(w io.Writer) (string, error) {
		if err := s.xlsx.WriteWorkbook(w, export.Season, export.Profile, export.Regattas); err != nil {
			return "", err
		}
		return exporter.XLSXFilename(export.Season, export.Profile.Name), nil
	})
}

// SEPA renders a credit transfer of the season total from the club account
// to the sailor. filename overrides the configured default when not blank.
func (s *ExportService) SEPA(ctx context.Context, export domain.SeasonExport, filename string) (*exporter.Artifact, error) {
	return s.run(ctx, domain.ExportKindSEPA, export, s.requireSEPA, func(w io.Writer) (string, error) {
		payments := []domain.PaymentInstruction{PaymentFor(export)}
		if err := s.sepa.Write(w, payments, s.creditor.Info()); err != nil {
			return "", err
		}
		return s.sepaFilenameFor(filename), nil
	})
}

// Bundle renders every artifact concurrently and zips them. The SEPA file is
// only included when its preconditions hold.
func (s *ExportService) Bundle(ctx context.Context, export domain.SeasonExport) (*exporter.Artifact, error) {
	return s.run(ctx, domain.ExportKindBundle, export, requireRecords, func(w io.Writer) (string, error) {
		builders := []func(context.Context) (*exporter.Artifact, error){
			func(ctx context.Context) (*exporter.Artifact, error) { return s.CSV(ctx, export) },
			func(ctx context.Context) (*exporter.Artifact, error) { return s.SummaryPDF(ctx, export) },
			func(ctx context.Context) (*exporter.Artifact, error) { return s.StatisticsPDF(ctx, export) },
			func(ctx context.Context) (*exporter.Artifact, error) { return s.XLSX(ctx, export) },
		}
		if err := s.requireSEPA(export); err == nil {
			builders = append(builders, func(ctx context.Context) (*exporter.Artifact, error) {
				return s.SEPA(ctx, export, "")
			})
		} else {
			s.logger.InfoContext(ctx, "SEPA file left out of bundle",
				slog.String("season", export.Season),
				slog.String("reason", err.Error()))
		}

		artifacts := make([]*exporter.Artifact, len(builders))
		g, gctx := errgroup.WithContext(ctx)
		for i, build := range builders {
			g.Go(func() error {
				a, err := build(gctx)
				if err != nil {
					return err
				}
				artifacts[i] = a
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}

		if err := exporter.WriteBundle(w, artifacts, s.now()); err != nil {
			return "", err
		}
		return exporter.BundleFilename(export.Season, export.Profile.Name), nil
	})
}

// Statistics computes the season figures. Unlike the documents it accepts
// an empty season.
func (s *ExportService) Statistics(ctx context.Context, export domain.SeasonExport) domain.SeasonStatistics {
	_, span := s.tracer.Start(ctx, "export.statistics",
		trace.WithAttributes(
			attribute.String("export.season", export.Season),
			attribute.Int("export.records", len(export.Regattas)),
		))
	defer span.End()

	return exporter.ComputeStatistics(export.Regattas)
}

// CreditorConfigured reports whether SEPA exports can run at all
func (s *ExportService) CreditorConfigured() bool {
	return s.creditor.Configured()
}

// PaymentFor derives the season's single reimbursement transfer: the
// account holder (or sailor) receives the season total.
func PaymentFor(export domain.SeasonExport) domain.PaymentInstruction {
	return domain.PaymentInstruction{
		Name:      export.Profile.Holder(),
		IBAN:      export.Profile.IBAN,
		BIC:       export.Profile.BIC,
		Amount:    domain.SeasonTotal(export.Regattas),
		Reference: remittanceReference(export),
	}
}

// remittanceReference returns "Startgelder <season> <sail number>"
func remittanceReference(export domain.SeasonExport) string {
	parts := []string{"Startgelder"}
	for _, p := range []string{export.Season, export.Profile.SailNumber} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (s *ExportService) sepaFilenameFor(override string) string {
	if name := exporter.SanitizeFilenamePart(override); name != "" {
		if !strings.HasSuffix(strings.ToLower(name), ".xml") {
			name += ".xml"
		}
		return name
	}
	return s.sepaFilename
}

type precondition func(domain.SeasonExport) error

func requireRecords(export domain.SeasonExport) error {
	if len(export.Regattas) == 0 {
		return ErrNoRecords
	}
	return nil
}

func (s *ExportService) requireSEPA(export domain.SeasonExport) error {
	if err := requireRecords(export); err != nil {
		return err
	}
	if !export.Profile.HasIBAN() {
		return ErrMissingIBAN
	}
	if !s.creditor.Configured() {
		return ErrCreditorNotConfigured
	}
	return nil
}

// run checks the precondition, renders into a buffer and records the
// outcome. A failed precondition never reaches the formatter.
func (s *ExportService) run(ctx context.Context, kind domain.ExportKind, export domain.SeasonExport, check precondition, render func(io.Writer) (string, error)) (*exporter.Artifact, error) {
	ctx, span := s.tracer.Start(ctx, "export."+string(kind),
		trace.WithAttributes(
			attribute.String("export.kind", string(kind)),
			attribute.String("export.season", export.Season),
			attribute.Int("export.records", len(export.Regattas)),
		))
	defer span.End()

	start := time.Now()
	logger := s.logger.With(
		slog.String("kind", string(kind)),
		slog.String("season", export.Season),
		slog.Int("record_count", len(export.Regattas)),
	)

	fail := func(err error) (*exporter.Artifact, error) {
		infrastructure.RecordExportMetrics(ctx, s.metrics, string(kind), time.Since(start), 0, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := check(export); err != nil {
		logger.WarnContext(ctx, "Export refused", slog.String("reason", err.Error()))
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	var buf bytes.Buffer
	filename, err := render(&buf)
	if err != nil {
		logger.ErrorContext(ctx, "Export failed", slog.String("error", err.Error()))
		return fail(fmt.Errorf("failed to render %s: %w", kind, err))
	}

	artifact := &exporter.Artifact{
		Kind:        kind,
		Filename:    filename,
		ContentType: exporter.ContentTypeFor(kind),
		Body:        buf.Bytes(),
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, string(kind), time.Since(start), artifact.Size(), nil)
	span.SetAttributes(attribute.Int("export.bytes", artifact.Size()))
	logger.InfoContext(ctx, "Export rendered",
		slog.String("filename", artifact.Filename),
		slog.Int("bytes", artifact.Size()),
		slog.Duration("duration", time.Since(start)))
	return artifact, nil
}
