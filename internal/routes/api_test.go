package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kadiapp/kadi/internal/handler/api"
)

func newTestServer(origins []string) *echo.Echo {
	e := echo.New()
	Register(e, Deps{
		Handler: api.New(api.Handler{Logger: zerolog.Nop()}),
		Auth: func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		},
		CORSOrigins: origins,
		Logger:      zerolog.Nop(),
	})
	return e
}

func corsHeader(e *echo.Echo, origin string) (int, string) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(echo.HeaderOrigin, origin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, rec.Header().Get(echo.HeaderAccessControlAllowOrigin)
}

func TestCORS(t *testing.T) {
	t.Run("allow-listed origin is echoed", func(t *testing.T) {
		e := newTestServer([]string{"https://app.kadi.fr"})

		status, allowed := corsHeader(e, "https://app.kadi.fr")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "https://app.kadi.fr", allowed)
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		e := newTestServer([]string{"https://app.kadi.fr"})

		_, allowed := corsHeader(e, "https://evil.example")
		assert.Empty(t, allowed)
	})

	t.Run("unknown origin preflight is not approved", func(t *testing.T) {
		e := newTestServer([]string{"https://app.kadi.fr"})

		req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.example")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("empty allow-list opens to all origins", func(t *testing.T) {
		e := newTestServer(nil)

		status, allowed := corsHeader(e, "https://anywhere.example")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "*", allowed)
	})
}
