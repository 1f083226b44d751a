// Package api contains the JSON HTTP handlers for the Kadi API.
//
// Handlers bind and validate input, delegate to the domain services and
// return domain errors as-is; the centralized error handler maps them
// to HTTP responses. No handler writes an error payload itself.
package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/kadiapp/kadi/internal/ai"
	"github.com/kadiapp/kadi/internal/auth"
	"github.com/kadiapp/kadi/internal/domain"
	"github.com/kadiapp/kadi/internal/jobs"
	"github.com/kadiapp/kadi/internal/pdf"
	"github.com/kadiapp/kadi/internal/telemetry"
)

// Handler bundles the services behind the API routes.
type Handler struct {
	Users    domain.UserService
	Profiles domain.ProfileService
	Clients  domain.ClientService
	Catalog  domain.CatalogService
	Invoices domain.InvoiceService

	Tokens    *auth.TokenIssuer
	Drafter   *ai.Drafter
	Renderer  *pdf.InvoiceRenderer
	Publisher jobs.Publisher

	Pagination domain.PaginationDefaults
	Logger     zerolog.Logger
	Metrics    *telemetry.BusinessMetrics

	validate *validator.Validate
}

// New creates the API handler set.
func New(h Handler) *Handler {
	h.validate = validator.New()
	if h.Pagination.PageSize == 0 {
		h.Pagination = domain.PaginationDefaults{PageSize: 10, MaxPageSize: 100}
	}
	if h.Metrics == nil {
		// Tests construct handlers without metrics; register on a
		// throwaway registry so counters still work.
		h.Metrics = telemetry.NewBusinessMetrics(prometheus.NewRegistry())
	}
	return &h
}

// listEnvelope is the standard paginated response body.
type listEnvelope struct {
	Data       any                   `json:"data"`
	Pagination domain.PaginationMeta `json:"pagination"`
}

// bind decodes and validates a JSON body into v.
func (h *Handler) bind(c echo.Context, op string, v any) error {
	if err := c.Bind(v); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}
	if err := h.validate.Struct(v); err != nil {
		return domain.Invalid(op, "Données invalides ou manquantes")
	}
	return nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context, op string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.Invalid(op, "Identifiant invalide")
	}
	return id, nil
}

// tenantID pulls the resolved tenant from the request context. The auth
// middleware guarantees it on protected routes; a miss here is a wiring
// bug, answered with 403 rather than a panic.
func tenantID(c echo.Context) (uuid.UUID, error) {
	return domain.RequireTenantID(c.Request().Context())
}

// pagination parses the page/pageSize query parameters.
func (h *Handler) pagination(c echo.Context) domain.PaginationParams {
	return domain.ParsePagination(c.QueryParam("page"), c.QueryParam("pageSize"), h.Pagination)
}

// Health answers the liveness probe.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": "kadi-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
