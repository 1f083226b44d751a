// Package worker consumes background jobs from NATS. Its single
// responsibility today is delivering invoices: render the PDF, email it
// to the client, and move the invoice from draft to sent.
package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/kadiapp/kadi/internal/domain"
	"github.com/kadiapp/kadi/internal/email"
	"github.com/kadiapp/kadi/internal/jobs"
	"github.com/kadiapp/kadi/internal/pdf"
)

// Worker processes send-invoice jobs.
type Worker struct {
	conn     *nats.Conn
	invoices domain.InvoiceService
	profiles domain.ProfileService
	renderer *pdf.InvoiceRenderer
	sender   email.Sender
	logger   zerolog.Logger
}

// New creates a worker over an established NATS connection.
func New(conn *nats.Conn, invoices domain.InvoiceService, profiles domain.ProfileService,
	renderer *pdf.InvoiceRenderer, sender email.Sender, logger zerolog.Logger) *Worker {
	return &Worker{
		conn:     conn,
		invoices: invoices,
		profiles: profiles,
		renderer: renderer,
		sender:   sender,
		logger:   logger,
	}
}

// Start subscribes to the job subjects and blocks until the context is
// cancelled. A queue group shares the load across worker replicas.
func (w *Worker) Start(ctx context.Context) error {
	sub, err := w.conn.QueueSubscribe(jobs.SubjectSendInvoice, "kadi-workers", func(msg *nats.Msg) {
		var job jobs.SendInvoice
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			w.logger.Error().Err(err).Msg("malformed send-invoice payload, dropping")
			return
		}
		if err := w.handleSendInvoice(ctx, job); err != nil {
			w.logger.Error().Err(err).
				Str("invoice_id", job.InvoiceID.String()).
				Msg("send-invoice job failed")
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	w.logger.Info().Str("subject", jobs.SubjectSendInvoice).Msg("worker started")
	<-ctx.Done()
	return nil
}

// handleSendInvoice delivers one invoice. The status moves to sent only
// after the email is accepted by the SMTP server, so a failed delivery
// leaves the invoice in draft for a retry.
func (w *Worker) handleSendInvoice(ctx context.Context, job jobs.SendInvoice) error {
	invoice, err := w.invoices.Get(ctx, job.TenantID, job.InvoiceID)
	if err != nil {
		return err
	}
	if invoice.Client == nil || invoice.Client.Email == "" {
		return domain.Invalid("worker.send_invoice", "Le client n'a pas d'adresse email")
	}

	var issuer *domain.Profile
	if job.UserID != uuid.Nil {
		issuer, _ = w.profiles.GetByUserID(ctx, job.UserID)
	}

	doc, err := w.renderer.Render(invoice, issuer)
	if err != nil {
		return err
	}

	msg := email.BuildInvoiceEmail(invoice, issuer, doc)
	if err := w.sender.Send(ctx, msg); err != nil {
		return domain.Upstream(err, "worker.send_invoice", "")
	}

	if invoice.Status == domain.InvoiceStatusDraft {
		if err := w.invoices.UpdateStatus(ctx, job.TenantID, job.InvoiceID, domain.InvoiceStatusSent); err != nil {
			return err
		}
	}

	w.logger.Info().
		Str("invoice_number", invoice.InvoiceNumber).
		Str("to", invoice.Client.Email).
		Msg("invoice delivered")
	return nil
}
