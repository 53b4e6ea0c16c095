package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clubportal/internal/config"
	apierrors "clubportal/internal/errors"
	"clubportal/internal/infrastructure"
	"clubportal/internal/middleware"
	"clubportal/internal/services"
	"clubportal/pkg/contracts"
	"clubportal/pkg/contracts/domain"
)

// options holds the flags shared by every subcommand
type options struct {
	input        string
	outputDir    string
	configFile   string
	creditorName string
	creditorIBAN string
	creditorBIC  string
	verbose      bool
}

// newRootCmd builds the command tree. Documents are written to the output
// directory, their paths to stdout and logs to stderr.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "regatta-export",
		Short:         "Render regatta reimbursement documents",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Render the reimbursement documents of a sailing season.

The input is a JSON file with the season, the sailor profile and the
regatta records, "-" reads it from stdin:

  {"season": "2024", "profile": {...}, "regattas": [...]}

The club account used as SEPA debtor comes from the portal configuration
(config.yaml or PORTAL_CREDITOR_*) and can be overridden by flags.`,
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.input, "input", "i", "-", "season JSON file, - for stdin")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (default: configured exports dir)")
	flags.StringVar(&opts.configFile, "config", "", "config file (default: config.yaml lookup)")
	flags.StringVar(&opts.creditorName, "creditor-name", "", "club account holder")
	flags.StringVar(&opts.creditorIBAN, "creditor-iban", "", "club account IBAN")
	flags.StringVar(&opts.creditorBIC, "creditor-bic", "", "club account BIC")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newExportCmd(opts, domain.ExportKindCSV, "csv", "Write the Startgeld CSV"),
		newExportCmd(opts, domain.ExportKindSummaryPDF, "summary", "Write the reimbursement application PDF"),
		newExportCmd(opts, domain.ExportKindStatisticsPDF, "statistics", "Write the season statistics PDF"),
		newExportCmd(opts, domain.ExportKindXLSX, "xlsx", "Write the Excel workbook"),
		newSEPACmd(opts),
		newExportCmd(opts, domain.ExportKindBundle, "bundle", "Write a ZIP with every document"),
		newStatsCmd(opts),
	)

	return rootCmd
}

func newExportCmd(opts *options, kind domain.ExportKind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, kind, services.ExportOptions{})
		},
	}
}

func newSEPACmd(opts *options) *cobra.Command {
	var filename string
	cmd := &cobra.Command{
		Use:   "sepa",
		Short: "Write the SEPA credit transfer (pain.001.001.03)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, domain.ExportKindSEPA, services.ExportOptions{Filename: filename})
		},
	}
	cmd.Flags().StringVar(&filename, "filename", "", "output filename, .xml is appended if missing")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the season statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(env.service.Statistics(cmd.Context(), env.export))
		},
	}
}

// environment is what every subcommand needs after flag processing
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *services.ExportService
	export  domain.SeasonExport
}

func setup(cmd *cobra.Command, opts *options) (*environment, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Logging
	logCfg.Output = "console"
	if opts.verbose {
		logCfg.Level = "debug"
	}
	logger, err := infrastructure.NewLogger(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	export, err := readSeason(cmd.InOrStdin(), opts.input)
	if err != nil {
		return nil, err
	}
	if err := middleware.NewValidator(logger).ValidateStruct(export); err != nil {
		return nil, describeValidation(err)
	}

	return &environment{
		cfg:     cfg,
		logger:  logger,
		service: services.NewExportService(cfg, logger),
		export:  export,
	}, nil
}

func runExport(cmd *cobra.Command, opts *options, kind domain.ExportKind, exportOpts services.ExportOptions) error {
	env, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	artifact, err := env.service.Export(ctx, kind, env.export, exportOpts)
	if err != nil {
		return describeExportError(err)
	}

	if opts.outputDir != "" {
		env.cfg.Paths.ExportsDir = opts.outputDir
	}
	paths, err := env.cfg.GetPaths()
	if err != nil {
		return err
	}
	path := paths.GetExportPath(artifact.Filename)
	if err := artifact.WriteFile(path); err != nil {
		return err
	}

	env.logger.Info("Export written",
		slog.String("kind", string(kind)),
		slog.String("path", path),
		slog.Int("size_bytes", artifact.Size()))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// loadConfig reads the portal configuration and applies the creditor flags
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.creditorName != "" {
		cfg.Creditor.Name = opts.creditorName
	}
	if opts.creditorIBAN != "" {
		cfg.Creditor.IBAN = opts.creditorIBAN
	}
	if opts.creditorBIC != "" {
		cfg.Creditor.BIC = opts.creditorBIC
	}
	return cfg, nil
}

func readSeason(stdin io.Reader, input string) (domain.SeasonExport, error) {
	var export domain.SeasonExport

	r := stdin
	if input != "-" {
		if !config.FileExists(input) {
			return export, fmt.Errorf("input file not found: %s", input)
		}
		f, err := os.Open(input)
		if err != nil {
			return export, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&export); err != nil {
		return export, fmt.Errorf("invalid season file: %w", err)
	}
	return export, nil
}

// describeValidation flattens field errors into one line per field
func describeValidation(err error) error {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid season file: %s", apiErr.Message)
	}
	lines := make([]string, 0, len(details.Errors))
	for _, fe := range details.Errors {
		lines = append(lines, fmt.Sprintf("  %s: %s", fe.Field, fe.Message))
	}
	return fmt.Errorf("invalid season file:\n%s", strings.Join(lines, "\n"))
}

func describeExportError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoRecords):
		return errors.New("the season has no regatta records")
	case errors.Is(err, services.ErrMissingIBAN):
		return errors.New("the profile has no IBAN, SEPA export needs one")
	case errors.Is(err, services.ErrCreditorNotConfigured):
		return errors.New("no club account configured, set --creditor-iban or PORTAL_CREDITOR_IBAN")
	default:
		return err
	}
}
