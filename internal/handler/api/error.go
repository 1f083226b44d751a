package api

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kadiapp/kadi/internal/domain"
)

// errorBody is the uniform error payload.
type errorBody struct {
	Message string `json:"message"`
}

// statusFromCode maps domain error codes to HTTP statuses.
func statusFromCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUPSTREAM:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler returns the centralized Echo error handler. Domain
// errors map to their status and French message; everything else
// becomes a 500 with a generic message so internal details never reach
// the client. Every 5xx is logged with its operation and, when present,
// the PostgreSQL diagnostics.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := domain.GenericInternalMessage

		var httpErr *echo.HTTPError
		var domainErr *domain.Error

		switch {
		case errors.As(err, &domainErr):
			status = statusFromCode(domainErr.Code)
			message = domain.ErrorMessage(err)
		case errors.As(err, &httpErr):
			// Echo's own errors (404 route miss, body too large, ...).
			status = httpErr.Code
			if status < http.StatusInternalServerError {
				if s, ok := httpErr.Message.(string); ok {
					message = s
				} else {
					message = http.StatusText(status)
				}
			}
		}

		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error().Err(err)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				event = event.
					Str("pg_code", pgErr.Code).
					Str("pg_constraint", pgErr.ConstraintName).
					Str("pg_detail", pgErr.Detail)
			}
		}
		event.
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", status).
			Str("op", domain.ErrorOp(err)).
			Msg("request failed")

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, errorBody{Message: message})
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
