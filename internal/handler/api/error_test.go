package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadiapp/kadi/internal/domain"
)

func handleError(t *testing.T, err error) (int, errorBody) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop())(err, c)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandler(t *testing.T) {
	t.Run("domain codes map to statuses", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{domain.Invalid("op", "Le nom est requis"), http.StatusBadRequest},
			{domain.Unauthorized("op", "Authentification requise"), http.StatusUnauthorized},
			{domain.ErrTenantRequired, http.StatusForbidden},
			{domain.NotFound("op", "Facture"), http.StatusNotFound},
			{domain.Conflict("op", "Un compte existe déjà avec cet email"), http.StatusConflict},
			{domain.Upstream(errors.New("timeout"), "op", ""), http.StatusBadGateway},
			{domain.Internal(errors.New("boom"), "op", ""), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			status, body := handleError(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, domain.ErrorMessage(tc.err), body.Message)
		}
	})

	t.Run("client errors keep their message", func(t *testing.T) {
		status, body := handleError(t, domain.NotFound("op", "Facture"))
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Facture introuvable", body.Message)
	})

	t.Run("internal details never reach the client", func(t *testing.T) {
		status, body := handleError(t, domain.Internal(errors.New("pq: connection refused"), "op", ""))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, domain.GenericInternalMessage, body.Message)
		assert.NotContains(t, body.Message, "connection refused")
	})

	t.Run("wrapped domain error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("listing invoices: %w", domain.NotFound("op", "Facture"))
		status, body := handleError(t, err)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Facture introuvable", body.Message)
	})

	t.Run("echo client errors keep their status", func(t *testing.T) {
		status, body := handleError(t, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"))
		assert.Equal(t, http.StatusRequestEntityTooLarge, status)
		assert.Equal(t, "Request Entity Too Large", body.Message)
	})

	t.Run("echo server errors are masked", func(t *testing.T) {
		status, body := handleError(t, echo.NewHTTPError(http.StatusInternalServerError, "secret detail"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, domain.GenericInternalMessage, body.Message)
	})

	t.Run("unknown errors become generic 500", func(t *testing.T) {
		status, body := handleError(t, errors.New("surprise"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, domain.GenericInternalMessage, body.Message)
	})
}
