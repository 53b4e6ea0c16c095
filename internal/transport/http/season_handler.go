package http

import (
	"context"
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

type seasonContextKey struct{}

// SeasonHandler exposes the stored seasons of the sailor
type SeasonHandler struct {
	service      SeasonServiceInterface
	validator    *cpmiddleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSeasonHandler creates a new season handler
func NewSeasonHandler(service SeasonServiceInterface, validator *cpmiddleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SeasonHandler {
	return &SeasonHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "season_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the season routes
func (h *SeasonHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListSeasons)

	r.Route("/{season}", func(r chi.Router) {
		r.Use(h.SeasonCtx)

		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.PutProfile)

		r.Get("/regattas", h.ListRegattas)
		r.Post("/regattas", h.CreateRegatta)
		r.Put("/regattas/{id}", h.UpdateRegatta)
		r.Delete("/regattas/{id}", h.DeleteRegatta)

		r.Get("/statistics", h.Statistics)
		r.Get("/exports/{kind}", h.Export)
		r.Post("/submit", h.Submit)
	})

	return r
}

// SeasonCtx validates the season path parameter and stores it in the context
func (h *SeasonHandler) SeasonCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "season")
		if err := h.validator.ValidateVar("season", name, "season"); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), seasonContextKey{}, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func seasonFrom(ctx context.Context) string {
	name, _ := ctx.Value(seasonContextKey{}).(string)
	return name
}

// ListSeasons handles GET /api/seasons
func (h *SeasonHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"seasons": h.service.Seasons(r.Context())})
}

// GetProfile handles GET /api/seasons/{season}/profile
func (h *SeasonHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), seasonFrom(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, profile)
}

// PutProfile handles PUT /api/seasons/{season}/profile
func (h *SeasonHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.ProfileRecord
	if !h.decode(w, r, &profile) {
		return
	}

	saved, err := h.service.SaveProfile(r.Context(), seasonFrom(r.Context()), profile)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, saved)
}

// ListRegattas handles GET /api/seasons/{season}/regattas
func (h *SeasonHandler) ListRegattas(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Regattas(r.Context(), seasonFrom(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"regattas": records,
		"total":    domain.SeasonTotal(records),
	})
}

// CreateRegatta handles POST /api/seasons/{season}/regattas
func (h *SeasonHandler) CreateRegatta(w http.ResponseWriter, r *http.Request) {
	var record domain.RegattaRecord
	if !h.decode(w, r, &record) {
		return
	}

	created, err := h.service.AddRegatta(r.Context(), seasonFrom(r.Context()), record)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// UpdateRegatta handles PUT /api/seasons/{season}/regattas/{id}
func (h *SeasonHandler) UpdateRegatta(w http.ResponseWriter, r *http.Request) {
	var record domain.RegattaRecord
	if !h.decode(w, r, &record) {
		return
	}

	updated, err := h.service.UpdateRegatta(r.Context(), seasonFrom(r.Context()), chi.URLParam(r, "id"), record)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, updated)
}

// DeleteRegatta handles DELETE /api/seasons/{season}/regattas/{id}
func (h *SeasonHandler) DeleteRegatta(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRegatta(r.Context(), seasonFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Statistics handles GET /api/seasons/{season}/statistics
func (h *SeasonHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context(), seasonFrom(r.Context()))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, stats)
}

// Export handles GET /api/seasons/{season}/exports/{kind}
func (h *SeasonHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := domain.ParseExportKind(chi.URLParam(r, "kind"))
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("export kind"))
		return
	}

	artifact, err := h.service.Export(ctx, seasonFrom(ctx), kind, services.ExportOptions{
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

// Submit handles POST /api/seasons/{season}/submit
func (h *SeasonHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := seasonFrom(ctx)

	receipt, err := h.service.Submit(ctx, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	h.logger.InfoContext(ctx, "season submitted",
		slog.String("season", name),
		slog.String("receipt_id", receipt.ID),
		slog.String("request_id", middleware.GetReqID(ctx)),
	)
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, receipt)
}

// decode reads and validates a JSON body into v, answering the request
// itself on failure
func (h *SeasonHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeJSON(w, r, v); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	if err := h.validator.ValidateStruct(v); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}
