package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/kadiapp/kadi/internal"
	"github.com/kadiapp/kadi/internal/domain"
	"github.com/kadiapp/kadi/internal/email"
	"github.com/kadiapp/kadi/internal/pdf"
	"github.com/kadiapp/kadi/internal/postgres"
	"github.com/kadiapp/kadi/internal/telemetry"
	"github.com/kadiapp/kadi/internal/worker"
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

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	natsConn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName+"-worker"))
	if err != nil {
		return fmt.Errorf("nats connection failed: %w", err)
	}
	defer natsConn.Drain()

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	}, logger)

	w := worker.New(
		natsConn,
		postgres.NewInvoiceService(pool, domain.TimestampNumberGenerator{}),
		postgres.NewProfileService(pool),
		pdf.NewInvoiceRenderer(),
		sender,
		logger,
	)

	return w.Start(ctx)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
