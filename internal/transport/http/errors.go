package http

import (
	"errors"
	"net/http"

	apierrors "clubportal/internal/errors"
	"clubportal/internal/season"
	"clubportal/internal/services"
)

// errSubmissionNotConfigured tells the user to fall back to the PDF
var errSubmissionNotConfigured = apierrors.New(http.StatusServiceUnavailable, apierrors.CodeServiceUnavailable,
	"Online-Einreichung ist nicht eingerichtet. Bitte den Antrag als PDF exportieren.")

// mapServiceError converts service and store errors into API errors.
// Unknown errors pass through and end up as 500.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoRecords):
		return apierrors.ErrNoRecords
	case errors.Is(err, services.ErrMissingIBAN):
		return apierrors.ErrMissingIBAN
	case errors.Is(err, services.ErrCreditorNotConfigured):
		return apierrors.ErrCreditorNotConfigured
	case errors.Is(err, services.ErrSubmissionFailed):
		return apierrors.ErrSubmissionFailed
	case errors.Is(err, services.ErrSubmissionNotConfigured):
		return errSubmissionNotConfigured
	case errors.Is(err, services.ErrUnknownExportKind):
		return apierrors.NotFoundError("export kind")
	case errors.Is(err, season.ErrSeasonNotFound):
		return apierrors.NotFoundError("season")
	case errors.Is(err, season.ErrRegattaNotFound):
		return apierrors.NotFoundError("regatta")
	case errors.Is(err, season.ErrInvalidSeason):
		return apierrors.ErrValidation("season", err.Error())
	default:
		return err
	}
}
