package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally; in production the client only sees
//     a generic message, never internal detail.
//   - Renders a consistent JSON envelope: {"errorMessage": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c, production)
		_ = c.JSON(code, errorResponse{ErrorMessage: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, production bool) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes. Forbidden answers
	// 401 (not 403): the site front end treats both missing and insufficient
	// identity as a login prompt.
	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrIdentityMismatch),
		errors.Is(err, domain.ErrForbidden):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidRuleSet),
		errors.Is(err, domain.ErrInvalidComment),
		errors.Is(err, domain.ErrInvalidImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrProviderRateLimited),
		errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, domain.ErrStorage),
		errors.Is(err, domain.ErrVerifyTimeout):
		return http.StatusServiceUnavailable, err.Error()
	}

	// Unexpected error: log the real cause.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if production {
		return http.StatusInternalServerError, "internal server error"
	}
	return http.StatusInternalServerError, err.Error()
}
