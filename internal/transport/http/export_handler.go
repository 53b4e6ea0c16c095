package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "clubportal/internal/errors"
	cpmiddleware "clubportal/internal/middleware"
	"clubportal/internal/services"
	"clubportal/pkg/contracts/domain"
)

// ExportHandler renders exports of a season posted in the request body.
// Nothing is stored.
type ExportHandler struct {
	service      ExportServiceInterface
	validator    *cpmiddleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ExportServiceInterface, validator *cpmiddleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/kinds", h.ListKinds)
	r.Post("/statistics", h.Statistics)
	r.Post("/{kind}", h.Export)

	return r
}

// ListKinds handles GET /api/exports/kinds
func (h *ExportHandler) ListKinds(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"kinds": domain.ExportKinds})
}

// Export handles POST /api/exports/{kind}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := domain.ParseExportKind(chi.URLParam(r, "kind"))
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("export kind"))
		return
	}

	export, ok := h.decodeSeason(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(ctx, "export requested",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("kind", string(kind)),
		slog.String("season", export.Season),
		slog.Int("record_count", len(export.Regattas)),
	)

	artifact, err := h.service.Export(ctx, kind, export, services.ExportOptions{
		Filename: r.URL.Query().Get("filename"),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	if err := writeArtifact(w, artifact); err != nil {
		h.logger.WarnContext(ctx, "failed to write download",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(ctx)),
		)
	}
}

// Statistics handles POST /api/exports/statistics
func (h *ExportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	export, ok := h.decodeSeason(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, h.service.Statistics(r.Context(), export))
}

// decodeSeason reads and validates the season payload, answering the
// request itself on failure
func (h *ExportHandler) decodeSeason(w http.ResponseWriter, r *http.Request) (domain.SeasonExport, bool) {
	var export domain.SeasonExport
	if err := decodeJSON(w, r, &export); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return export, false
	}
	if err := h.validator.ValidateStruct(export); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return export, false
	}
	return export, true
}
