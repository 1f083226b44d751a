package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kadiapp/kadi/internal/domain"
)

// sessionResponse is returned by signup and login.
type sessionResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Signup handles POST /api/auth/signup. It creates the account with its
// tenant and profile, then signs the caller in immediately.
func (h *Handler) Signup(c echo.Context) error {
	const op = "api.signup"

	var params domain.SignupParams
	if err := h.bind(c, op, &params); err != nil {
		return err
	}

	user, err := h.Users.Signup(c.Request().Context(), params)
	if err != nil {
		return err
	}

	token, err := h.Tokens.Issue(user.ID, user.Email, time.Now())
	if err != nil {
		return err
	}

	h.Metrics.Signups.Inc()
	h.Logger.Info().Str("user_id", user.ID.String()).Msg("account created")
	return c.JSON(http.StatusCreated, sessionResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c echo.Context) error {
	const op = "api.login"

	var params domain.LoginParams
	if err := h.bind(c, op, &params); err != nil {
		return err
	}

	user, err := h.Users.Authenticate(c.Request().Context(), params)
	if err != nil {
		return err
	}

	token, err := h.Tokens.Issue(user.ID, user.Email, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so there
// is nothing to revoke server-side; the client discards its copy.
func (h *Handler) Logout(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// GetProfile handles GET /api/auth/profile for the authenticated principal.
func (h *Handler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	principal := domain.PrincipalFromContext(ctx)
	if principal == nil {
		return domain.Unauthorized("api.profile.get", "Authentification requise")
	}

	profile, err := h.Profiles.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles POST /api/auth/profile.
func (h *Handler) UpdateProfile(c echo.Context) error {
	const op = "api.profile.update"
	ctx := c.Request().Context()

	principal := domain.PrincipalFromContext(ctx)
	if principal == nil {
		return domain.Unauthorized(op, "Authentification requise")
	}

	var params domain.UpdateProfileParams
	if err := c.Bind(&params); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}

	profile, err := h.Profiles.Update(ctx, principal.UserID, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}
