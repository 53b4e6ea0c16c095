package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"clubportal/internal/config"
	apierrors "clubportal/internal/errors"
	"clubportal/internal/infrastructure"
	customMiddleware "clubportal/internal/middleware"
	"clubportal/internal/season"
	"clubportal/internal/services"
	"clubportal/internal/submission"
	handlers "clubportal/internal/transport/http"
	"clubportal/pkg/contracts"
)

// AppName is logged at startup
const AppName = "Club Portal - Regatta Reimbursements"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Store      season.Store
	Relay      *submission.Client
	Export     *services.ExportService
	Submission *services.SubmissionService
	Season     *services.SeasonService
	Health     *services.HealthService
}

// NewApplication loads the configuration and wires the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution()
	cfg.Paths.ExportsDir = paths.ExportsDir
	cfg.Paths.LogsDir = paths.LogsDir

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	return New(cfg, logger, otelProviders)
}

// New wires an application from already initialized infrastructure
func New(cfg *config.Config, logger *slog.Logger, otelProviders *infrastructure.OTelProviders) (*Application, error) {
	if otelProviders == nil {
		otelProviders = infrastructure.NoopProviders(logger)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	store := season.NewMemoryStore()
	relay := submission.NewClient(a.Config.Submission, nil, a.Logger)

	exportService := services.NewExportService(a.Config, a.Logger,
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(a.Metrics),
	)
	submissionService := services.NewSubmissionService(relay, a.Metrics, a.Logger)

	a.Services = &ServiceContainer{
		Store:      store,
		Relay:      relay,
		Export:     exportService,
		Submission: submissionService,
		Season:     services.NewSeasonService(store, exportService, submissionService, a.Logger),
		Health:     services.NewHealthService(a.Config, relay, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")

	// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(a.corsConfig()))
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			errorHandler,
			a.Logger,
		).Handler)
	}
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r, errorHandler)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validator := customMiddleware.NewValidator(a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		exportHandler := handlers.NewExportHandler(a.Services.Export, validator, a.Logger, errorHandler)
		r.Mount("/exports", exportHandler.Routes())

		seasonHandler := handlers.NewSeasonHandler(a.Services.Season, validator, a.Logger, errorHandler)
		r.Mount("/seasons", seasonHandler.Routes())
	})
}

// corsConfig allows the configured frontend origins to call the API and
// read the download filename
func (a *Application) corsConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
	if a.Config.Security.EnableCORS {
		cfg.AllowedOrigins = a.Config.Security.AllowedOrigins
	}
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server in the background. A listen failure cancels ctx.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.String("exports_dir", a.Config.Paths.ExportsDir),
		slog.Bool("creditor_configured", a.Config.Creditor.Configured()),
		slog.Bool("submission_configured", a.Services.Relay.Configured()))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// performStartupHealthCheck logs readiness problems without failing startup
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	status := a.Services.Health.ReadinessCheck(ctx)
	if status.Status == services.StatusReady {
		a.Logger.InfoContext(ctx, "Startup health check passed")
		return
	}
	for name, svc := range status.Services {
		if svc.Status != services.StatusReady {
			a.Logger.WarnContext(ctx, "Startup health check warning",
				slog.String("service", name),
				slog.String("status", svc.Status),
				slog.String("message", svc.Message))
		}
	}
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted or the server fails
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	// ctx may already be cancelled; shutdown gets its own deadline
	return a.Stop(context.Background())
}
