// Package email builds and delivers outbound mail. The only message
// Kadi sends today is an invoice with its PDF attached.
package email

import (
	"context"
	"fmt"

	"github.com/kadiapp/kadi/internal/domain"
)

// Email is a message to deliver.
type Email struct {
	To          []string
	From        string
	Subject     string
	TextBody    string
	Attachments []Attachment
}

// Attachment is a file attached to an email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Sender delivers emails. SMTP is the only implementation; the
// interface exists so the worker can be tested without a mail server.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// BuildInvoiceEmail assembles the message sent to a client, with the
// rendered PDF attached. The issuer profile supplies the sender's
// display name in the copy.
func BuildInvoiceEmail(invoice *domain.Invoice, issuer *domain.Profile, pdf []byte) *Email {
	sender := "votre prestataire"
	if issuer != nil && issuer.CompanyName != "" {
		sender = issuer.CompanyName
	}

	body := fmt.Sprintf(
		"Bonjour,\n\nVeuillez trouver ci-joint la facture %s d'un montant de %.2f %s.\n\nCordialement,\n%s\n",
		invoice.InvoiceNumber, invoice.Total, invoice.Currency, sender)

	return &Email{
		To:      []string{invoice.Client.Email},
		Subject: fmt.Sprintf("Facture %s", invoice.InvoiceNumber),
		TextBody: body,
		Attachments: []Attachment{{
			Filename:    invoice.InvoiceNumber + ".pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
}
