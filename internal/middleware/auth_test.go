package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadiapp/kadi/internal/auth"
	"github.com/kadiapp/kadi/internal/domain"
)

type stubProfiles struct {
	domain.ProfileService

	profile *domain.Profile
	calls   int
}

func (s *stubProfiles) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	s.calls++
	if s.profile == nil {
		return nil, domain.NotFound("profile.get", "Profil")
	}
	return s.profile, nil
}

func authTestSetup(t *testing.T, profiles domain.ProfileService) (*auth.TokenIssuer, echo.HandlerFunc, echo.MiddlewareFunc) {
	t.Helper()
	tokens := auth.NewTokenIssuer("test-secret", "kadi", time.Hour)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return tokens, next, RequireAuth(tokens, profiles, zerolog.Nop())
}

func doRequest(mw echo.MiddlewareFunc, next echo.HandlerFunc, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, mw(next)(c)
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	tenant := uuid.New()

	t.Run("resolves tenant and principal", func(t *testing.T) {
		profiles := &stubProfiles{profile: &domain.Profile{UserID: userID, TenantID: tenant}}
		tokens, next, mw := authTestSetup(t, profiles)

		token, err := tokens.Issue(userID, "marie@example.fr", time.Now())
		require.NoError(t, err)

		var gotTenant uuid.UUID
		var gotPrincipal *domain.Principal
		capture := func(c echo.Context) error {
			gotTenant = domain.TenantIDFromContext(c.Request().Context())
			gotPrincipal = domain.PrincipalFromContext(c.Request().Context())
			return next(c)
		}

		_, err = doRequest(mw, capture, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, tenant, gotTenant)
		require.NotNil(t, gotPrincipal)
		assert.Equal(t, userID, gotPrincipal.UserID)
		assert.Equal(t, "marie@example.fr", gotPrincipal.Email)
		assert.Equal(t, 1, profiles.calls)
	})

	t.Run("missing header", func(t *testing.T) {
		_, next, mw := authTestSetup(t, &stubProfiles{})
		_, err := doRequest(mw, next, "")
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, next, mw := authTestSetup(t, &stubProfiles{})
		_, err := doRequest(mw, next, "Bearer not-a-token")
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	})

	t.Run("principal without profile is forbidden", func(t *testing.T) {
		tokens, next, mw := authTestSetup(t, &stubProfiles{})

		token, err := tokens.Issue(userID, "marie@example.fr", time.Now())
		require.NoError(t, err)

		_, err = doRequest(mw, next, "Bearer "+token)
		assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
	})

	t.Run("profile without tenant is forbidden", func(t *testing.T) {
		profiles := &stubProfiles{profile: &domain.Profile{UserID: userID}}
		tokens, next, mw := authTestSetup(t, profiles)

		token, err := tokens.Issue(userID, "marie@example.fr", time.Now())
		require.NoError(t, err)

		_, err = doRequest(mw, next, "Bearer "+token)
		assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
	})
}
