// Package telemetry wires error tracking and business metrics.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

// SentryConfig holds configuration for Sentry error tracking.
type SentryConfig struct {
	// DSN is the Sentry Data Source Name; empty disables tracking.
	DSN string

	// Environment identifies the deployment environment (dev, staging, prod).
	Environment string

	// Release is the application version identifier.
	Release string
}

// InitSentry initializes error tracking and returns a cleanup function
// to call on shutdown. An empty DSN is not an error: tracking is simply
// disabled, which is the expected local-development setup.
func InitSentry(cfg SentryConfig, logger zerolog.Logger) (func(), error) {
	if cfg.DSN == "" {
		logger.Info().Msg("sentry disabled, no DSN configured")
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("release", cfg.Release).
		Msg("sentry initialized")

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError reports an error with tenant context. Safe to call when
// tracking is disabled; sentry drops events without a client.
func CaptureError(err error, tenantID string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		if tenantID != "" {
			scope.SetTag("tenant_id", tenantID)
		}
		sentry.CaptureException(err)
	})
}
