package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// errorEnvelope mirrors the success envelope with a null payload.
type errorEnvelope struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform envelope: {"data": null, "status": <int>, "message": <string>}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorEnvelope{Status: code, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Duplicate registrations
	// and failed logins deliberately map to 400, not 409/404.
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidCoordinates),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrAlreadyProcessed):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotAssignedToYou):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrAssignmentNotFound),
		errors.Is(err, domain.ErrNoAssignments):
		return http.StatusNotFound, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
