// Package middleware holds the Echo middleware for authentication,
// tenant resolution and request metrics.
package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kadiapp/kadi/internal/auth"
	"github.com/kadiapp/kadi/internal/domain"
)

// RequireAuth verifies the bearer token and resolves the caller's
// tenant through their profile, once per request with no caching.
// Requests without a valid token fail with EUNAUTHORIZED; a valid
// principal without a tenant fails with EFORBIDDEN. On success the
// request context carries the principal and tenant ID for handlers.
func RequireAuth(tokens *auth.TokenIssuer, profiles domain.ProfileService, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			const op = "middleware.auth"

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return domain.Unauthorized(op, "Authentification requise")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			userID, email, err := tokens.Verify(raw)
			if err != nil {
				return err
			}

			profile, err := profiles.GetByUserID(c.Request().Context(), userID)
			if err != nil {
				if domain.IsCode(err, domain.ENOTFOUND) {
					// Authenticated but orphaned: no profile, no tenant.
					logger.Warn().Str("user_id", userID.String()).Msg("principal has no profile")
					return domain.ErrTenantRequired
				}
				return err
			}
			if profile.TenantID == uuid.Nil {
				logger.Warn().Str("user_id", userID.String()).Msg("profile has no tenant")
				return domain.ErrTenantRequired
			}

			principal := &domain.Principal{
				UserID:   userID,
				TenantID: profile.TenantID,
				Email:    email,
			}

			ctx := domain.NewContextWithPrincipal(c.Request().Context(), principal)
			ctx = domain.NewContextWithTenant(ctx, profile.TenantID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
