// Package routes assembles the Echo server: global middleware, the
// public endpoints and the authenticated API groups.
package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/kadiapp/kadi/internal/handler/api"
	"github.com/kadiapp/kadi/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Handler *api.Handler
	Auth    echo.MiddlewareFunc
	Metrics *middleware.HTTPMetrics

	// CORSOrigins is the allow-list. Empty means allow all origins,
	// intended for development only; a warning is logged.
	CORSOrigins []string

	// Registry backs the /metrics endpoint.
	Registry *prometheus.Registry

	Logger zerolog.Logger
}

// Register wires all middleware and routes onto the Echo instance.
func Register(e *echo.Echo, deps Deps) {
	e.HTTPErrorHandler = api.ErrorHandler(deps.Logger)

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}

	corsConfig := echomw.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}
	if len(deps.CORSOrigins) == 0 {
		deps.Logger.Warn().Msg("CORS allow-list empty, allowing all origins")
		corsConfig.AllowOrigins = []string{"*"}
	} else {
		corsConfig.AllowOrigins = deps.CORSOrigins
	}
	e.Use(echomw.CORSWithConfig(corsConfig))

	h := deps.Handler

	e.GET("/api/health", h.Health)
	if deps.Registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// Credential endpoints get a per-IP rate limit to slow down
	// enumeration and stuffing attempts.
	authGroup := e.Group("/api/auth", echomw.RateLimiter(
		echomw.NewRateLimiterMemoryStore(rate.Limit(5)),
	))
	authGroup.POST("/signup", h.Signup)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/profile", h.GetProfile, deps.Auth)
	authGroup.POST("/profile", h.UpdateProfile, deps.Auth)

	protected := e.Group("/api", deps.Auth)

	protected.GET("/clients", h.ListClients)
	protected.POST("/clients", h.CreateClient)
	protected.GET("/clients/:id", h.GetClient)
	protected.PATCH("/clients/:id", h.UpdateClient)
	protected.DELETE("/clients/:id", h.DeleteClient)

	protected.GET("/products", h.ListCatalogItems)
	protected.POST("/products", h.CreateCatalogItem)
	protected.GET("/products/:id", h.GetCatalogItem)
	protected.PATCH("/products/:id", h.UpdateCatalogItem)
	protected.DELETE("/products/:id", h.DeleteCatalogItem)

	protected.GET("/invoices", h.ListInvoices)
	protected.POST("/invoices", h.CreateInvoice)
	protected.GET("/invoices/summary", h.InvoiceSummary)
	protected.GET("/invoices/pdf/:id", h.InvoicePDF)
	protected.GET("/invoices/:id", h.GetInvoice)
	protected.PATCH("/invoices/:id", h.UpdateInvoice)
	protected.DELETE("/invoices/:id", h.DeleteInvoice)
	protected.POST("/invoices/:id/send", h.SendInvoice)

	protected.POST("/ai/facture", h.DraftInvoice)
}
