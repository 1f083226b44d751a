package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kadiapp/kadi/internal"
	"github.com/kadiapp/kadi/internal/ai"
	"github.com/kadiapp/kadi/internal/auth"
	"github.com/kadiapp/kadi/internal/domain"
	"github.com/kadiapp/kadi/internal/handler/api"
	"github.com/kadiapp/kadi/internal/jobs"
	"github.com/kadiapp/kadi/internal/middleware"
	"github.com/kadiapp/kadi/internal/pdf"
	"github.com/kadiapp/kadi/internal/postgres"
	"github.com/kadiapp/kadi/internal/routes"
	"github.com/kadiapp/kadi/internal/telemetry"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	cleanupSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
	}, logger)
	if err != nil {
		return err
	}
	defer cleanupSentry()

	// Migrations run over database/sql; the app itself uses pgxpool.
	logger.Info().Msg("connecting to database")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info().Msg("running database migrations")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	natsConn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName+"-api"))
	if err != nil {
		return fmt.Errorf("nats connection failed: %w", err)
	}
	defer natsConn.Drain()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := middleware.NewHTTPMetrics(registry)
	businessMetrics := telemetry.NewBusinessMetrics(registry)

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.AppName, cfg.JWT.TTL)

	users := postgres.NewUserService(pool)
	profiles := postgres.NewProfileService(pool)
	clients := postgres.NewClientService(pool)
	catalog := postgres.NewCatalogService(pool)
	invoices := postgres.NewInvoiceService(pool, domain.TimestampNumberGenerator{})

	handler := api.New(api.Handler{
		Users:     users,
		Profiles:  profiles,
		Clients:   clients,
		Catalog:   catalog,
		Invoices:  invoices,
		Tokens:    tokens,
		Drafter:   ai.NewDrafter(cfg.AI.OpenAIKey, ai.WithModel(cfg.AI.Model)),
		Renderer:  pdf.NewInvoiceRenderer(),
		Publisher: jobs.NewNATSPublisher(natsConn),
		Pagination: domain.PaginationDefaults{
			PageSize:    cfg.Pagination.DefaultPageSize,
			MaxPageSize: cfg.Pagination.MaxPageSize,
		},
		Logger:  logger,
		Metrics: businessMetrics,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	routes.Register(e, routes.Deps{
		Handler:     handler,
		Auth:        middleware.RequireAuth(tokens, profiles, logger),
		Metrics:     httpMetrics,
		CORSOrigins: cfg.CORSOrigins,
		Registry:    registry,
		Logger:      logger,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
