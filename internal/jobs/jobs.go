// Package jobs defines the background job payloads and the NATS
// publisher the API uses to enqueue them. The worker process consumes
// the same subjects.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/kadiapp/kadi/internal/domain"
)

// SubjectSendInvoice carries SendInvoice payloads.
const SubjectSendInvoice = "kadi.invoice.send"

// SendInvoice asks the worker to render an invoice PDF and email it to
// the client, then move the invoice from draft to sent.
type SendInvoice struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	// UserID identifies the sender, whose profile supplies the
	// company block on the PDF.
	UserID uuid.UUID `json:"user_id"`
}

// Publisher enqueues jobs. The API depends on this interface so
// handler tests can capture published jobs without a broker.
type Publisher interface {
	PublishSendInvoice(ctx context.Context, job SendInvoice) error
}

// NATSPublisher publishes jobs over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// PublishSendInvoice enqueues a send-invoice job.
func (p *NATSPublisher) PublishSendInvoice(_ context.Context, job SendInvoice) error {
	const op = "jobs.publish_send_invoice"

	payload, err := json.Marshal(job)
	if err != nil {
		return domain.Internal(err, op, "")
	}
	if err := p.conn.Publish(SubjectSendInvoice, payload); err != nil {
		return domain.Upstream(err, op, "")
	}
	return nil
}
