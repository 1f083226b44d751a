package domain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// DefaultInvoiceCurrency is applied when creation omits a currency.
const DefaultInvoiceCurrency = "USD"

// ValidInvoiceStatus reports whether s belongs to the status enum.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// LineItem is one row of an invoice. Stored as JSON alongside the
// invoice, never as its own table, matching the persisted shape the
// frontend edits.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Totals are the derived monetary amounts of an invoice. They are
// recomputed and persisted whenever line items are replaced; reads never
// compute them lazily.
type Totals struct {
	Subtotal float64
	Total    float64
}

// ComputeTotals sums quantity × unit price over the line items.
// Non-finite inputs are treated as 0. There is no tax or discount
// model, so the total always equals the subtotal.
func ComputeTotals(items []LineItem) Totals {
	var subtotal float64
	for _, item := range items {
		qty := finiteOrZero(item.Quantity)
		price := finiteOrZero(item.UnitPrice)
		subtotal += qty * price
	}
	return Totals{Subtotal: subtotal, Total: subtotal}
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Invoice is a tenant-scoped invoice referencing exactly one client.
// Reads always embed the owning client record.
type Invoice struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	ClientID      uuid.UUID  `json:"client_id"`
	InvoiceNumber string     `json:"invoice_number"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       *time.Time `json:"due_date"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	Currency      string     `json:"currency"`
	Items         []LineItem `json:"items"`
	Subtotal      float64    `json:"subtotal_amount"`
	Total         float64    `json:"total_amount"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Client is the embedded owning client, always present on reads.
	Client *Client `json:"client,omitempty"`
}

// InvoiceListQuery holds list parameters for invoices.
type InvoiceListQuery struct {
	Pagination PaginationParams
}

// CreateInvoiceParams is the allow-listed field set for invoice creation.
type CreateInvoiceParams struct {
	ClientID  uuid.UUID  `json:"client_id" validate:"required"`
	IssueDate *time.Time `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes"`
	Currency  string     `json:"currency"`
	Items     []LineItem `json:"items"`
}

// UpdateInvoiceParams is the allow-listed partial update for an invoice.
// Nil fields are unchanged; a non-nil Items replaces the line items and
// forces total recomputation.
type UpdateInvoiceParams struct {
	ClientID  *uuid.UUID  `json:"client_id"`
	IssueDate *time.Time  `json:"issue_date"`
	DueDate   *time.Time  `json:"due_date"`
	Status    *string     `json:"status"`
	Notes     *string     `json:"notes"`
	Currency  *string     `json:"currency"`
	Items     *[]LineItem `json:"items"`
}

// Empty reports whether the update carries no field at all.
func (p UpdateInvoiceParams) Empty() bool {
	return p.ClientID == nil && p.IssueDate == nil && p.DueDate == nil &&
		p.Status == nil && p.Notes == nil && p.Currency == nil && p.Items == nil
}

// InvoiceSummary aggregates a tenant's invoices for the dashboard.
type InvoiceSummary struct {
	// MonthlyRevenue sums paid invoices issued in the current calendar month.
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	// Outstanding sums sent and overdue invoices regardless of date.
	Outstanding float64 `json:"outstanding"`
	// PaidCount counts paid invoices all-time, not just this month.
	PaidCount int `json:"paid"`
}

// InvoiceFinancials is the projection needed to compute a summary.
type InvoiceFinancials struct {
	Status    string
	Total     float64
	IssueDate time.Time
}

// SummarizeInvoices computes the dashboard aggregates over a tenant's
// invoices. Monthly revenue is scoped to the calendar month of now,
// while the paid count is all-time; the asymmetry matches the shipped
// product behavior and is kept deliberately.
func SummarizeInvoices(rows []InvoiceFinancials, now time.Time) InvoiceSummary {
	var s InvoiceSummary
	year, month := now.Year(), now.Month()

	for _, row := range rows {
		switch row.Status {
		case InvoiceStatusPaid:
			s.PaidCount++
			if row.IssueDate.Year() == year && row.IssueDate.Month() == month {
				s.MonthlyRevenue += row.Total
			}
		case InvoiceStatusSent, InvoiceStatusOverdue:
			s.Outstanding += row.Total
		}
	}

	return s
}

// NumberGenerator produces invoice numbers. The strategy is pluggable
// so the numbering scheme can be replaced without touching call sites.
type NumberGenerator interface {
	Next(now time.Time) string
}

// TimestampNumberGenerator derives the invoice number from the last six
// digits of the millisecond timestamp, e.g. "FAC-123456".
//
// Numbers are NOT guaranteed unique: concurrent creations within the
// same millisecond window collide. Known weakness carried over from the
// shipped product; swap the generator to remediate.
type TimestampNumberGenerator struct {
	Prefix string
}

// Next returns the next invoice number for the given instant.
func (g TimestampNumberGenerator) Next(now time.Time) string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "FAC-"
	}
	return fmt.Sprintf("%s%06d", prefix, now.UnixMilli()%1_000_000)
}

// InvoiceService is the tenant-scoped data access contract for invoices.
type InvoiceService interface {
	List(ctx context.Context, tenantID uuid.UUID, q InvoiceListQuery) ([]Invoice, int64, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	Create(ctx context.Context, tenantID uuid.UUID, params CreateInvoiceParams) (*Invoice, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, params UpdateInvoiceParams) (*Invoice, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Summary(ctx context.Context, tenantID uuid.UUID, now time.Time) (*InvoiceSummary, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
}
