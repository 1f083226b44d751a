package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadiapp/kadi/internal/domain"
)

// InvoiceService implements domain.InvoiceService using PostgreSQL.
// Line items live in a JSONB column on the invoice row; totals are
// recomputed and persisted whenever the items are replaced.
type InvoiceService struct {
	pool    *pgxpool.Pool
	numbers domain.NumberGenerator
}

var _ domain.InvoiceService = (*InvoiceService)(nil)

// NewInvoiceService creates a new PostgreSQL-backed invoice service. A
// nil generator falls back to timestamp-derived numbers.
func NewInvoiceService(pool *pgxpool.Pool, numbers domain.NumberGenerator) *InvoiceService {
	if numbers == nil {
		numbers = domain.TimestampNumberGenerator{}
	}
	return &InvoiceService{pool: pool, numbers: numbers}
}

const invoiceColumns = `i.id, i.tenant_id, i.client_id, i.invoice_number, i.issue_date, i.due_date,
	i.status, i.notes, i.currency, i.items, i.subtotal_amount, i.total_amount, i.created_at, i.updated_at`

// invoiceQuery joins the owning client so every read embeds it.
const invoiceQuery = `SELECT ` + invoiceColumns + `,
	c.id, c.tenant_id, c.company_name, c.contact_name, c.email, c.phone, c.address, c.created_at, c.updated_at
	FROM invoices i
	JOIN clients c ON c.id = i.client_id`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var client domain.Client
	var items []byte

	err := row.Scan(&inv.ID, &inv.TenantID, &inv.ClientID, &inv.InvoiceNumber,
		&inv.IssueDate, &inv.DueDate, &inv.Status, &inv.Notes, &inv.Currency,
		&items, &inv.Subtotal, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt,
		&client.ID, &client.TenantID, &client.CompanyName, &client.ContactName,
		&client.Email, &client.Phone, &client.Address, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}

	inv.Items = []domain.LineItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, err
		}
	}
	inv.Client = &client
	return &inv, nil
}

// List returns the tenant's invoices, newest first, each with its
// owning client embedded.
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, q domain.InvoiceListQuery) ([]domain.Invoice, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM invoices WHERE tenant_id = $1", tenantID).Scan(&total); err != nil {
		return nil, 0, translateError(err, "invoice.list")
	}

	rows, err := s.pool.Query(ctx,
		invoiceQuery+" WHERE i.tenant_id = $1 ORDER BY i.created_at DESC LIMIT $2 OFFSET $3",
		tenantID, q.Pagination.PageSize, q.Pagination.OffsetStart)
	if err != nil {
		return nil, 0, translateError(err, "invoice.list")
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, q.Pagination.PageSize)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, translateError(err, "invoice.list")
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, "invoice.list")
	}

	return invoices, total, nil
}

// Get fetches one invoice by ID within the tenant, client embedded.
func (s *InvoiceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx,
		invoiceQuery+" WHERE i.tenant_id = $1 AND i.id = $2", tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("invoice.get", "Facture")
		}
		return nil, translateError(err, "invoice.get")
	}
	return inv, nil
}

// Create inserts an invoice for the tenant. The invoice number comes
// from the configured generator, totals are computed from the line
// items, and the referenced client must belong to the same tenant.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, params domain.CreateInvoiceParams) (*domain.Invoice, error) {
	const op = "invoice.create"

	if params.ClientID == uuid.Nil {
		return nil, domain.Invalid(op, "Le client est requis")
	}

	// Ownership check: never attach an invoice to another tenant's client.
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM clients WHERE tenant_id = $1 AND id = $2)",
		tenantID, params.ClientID).Scan(&exists)
	if err != nil {
		return nil, translateError(err, op)
	}
	if !exists {
		return nil, domain.NotFound(op, "Client")
	}

	now := time.Now()
	number := s.numbers.Next(now)

	issueDate := now
	if params.IssueDate != nil {
		issueDate = *params.IssueDate
	}
	status := params.Status
	if status == "" {
		status = domain.InvoiceStatusDraft
	}
	if !domain.ValidInvoiceStatus(status) {
		return nil, domain.Invalid(op, "Statut de facture invalide")
	}
	currency := params.Currency
	if currency == "" {
		currency = domain.DefaultInvoiceCurrency
	}

	items := params.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	totals := domain.ComputeTotals(items)

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, domain.Internal(err, op, "")
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx, `INSERT INTO invoices
		(tenant_id, client_id, invoice_number, issue_date, due_date, status, notes, currency, items, subtotal_amount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		tenantID, params.ClientID, number, issueDate, params.DueDate, status,
		params.Notes, currency, itemsJSON, totals.Subtotal, totals.Total).Scan(&id)
	if err != nil {
		return nil, translateError(err, op)
	}

	return s.Get(ctx, tenantID, id)
}

// Update applies a partial update to an invoice. Replacing the line
// items recomputes and persists the totals; omitting them leaves the
// stored totals untouched.
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, params domain.UpdateInvoiceParams) (*domain.Invoice, error) {
	const op = "invoice.update"

	if params.Empty() {
		return nil, domain.Invalid(op, "Aucune donnée à mettre à jour")
	}

	var set []string
	args := []any{tenantID, id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.ClientID != nil {
		var exists bool
		err := s.pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM clients WHERE tenant_id = $1 AND id = $2)",
			tenantID, *params.ClientID).Scan(&exists)
		if err != nil {
			return nil, translateError(err, op)
		}
		if !exists {
			return nil, domain.NotFound(op, "Client")
		}
		add("client_id", *params.ClientID)
	}
	if params.IssueDate != nil {
		add("issue_date", *params.IssueDate)
	}
	if params.DueDate != nil {
		add("due_date", *params.DueDate)
	}
	if params.Status != nil {
		if !domain.ValidInvoiceStatus(*params.Status) {
			return nil, domain.Invalid(op, "Statut de facture invalide")
		}
		add("status", *params.Status)
	}
	if params.Notes != nil {
		add("notes", *params.Notes)
	}
	if params.Currency != nil {
		add("currency", strings.ToUpper(strings.TrimSpace(*params.Currency)))
	}
	if params.Items != nil {
		items := *params.Items
		if items == nil {
			items = []domain.LineItem{}
		}
		totals := domain.ComputeTotals(items)
		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return nil, domain.Internal(err, op, "")
		}
		add("items", itemsJSON)
		add("subtotal_amount", totals.Subtotal)
		add("total_amount", totals.Total)
	}
	add("updated_at", time.Now())

	sql := fmt.Sprintf("UPDATE invoices SET %s WHERE tenant_id = $1 AND id = $2 RETURNING id",
		strings.Join(set, ", "))

	var updated uuid.UUID
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "Facture")
		}
		return nil, translateError(err, op)
	}

	return s.Get(ctx, tenantID, updated)
}

// Delete removes an invoice from the tenant.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM invoices WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return translateError(err, "invoice.delete")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("invoice.delete", "Facture")
	}
	return nil
}

// Summary computes the dashboard aggregates for a tenant. The rows are
// fetched as a thin projection and folded in memory so the aggregation
// rules live in one place.
func (s *InvoiceService) Summary(ctx context.Context, tenantID uuid.UUID, now time.Time) (*domain.InvoiceSummary, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT status, total_amount, issue_date FROM invoices WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, translateError(err, "invoice.summary")
	}
	defer rows.Close()

	var financials []domain.InvoiceFinancials
	for rows.Next() {
		var f domain.InvoiceFinancials
		if err := rows.Scan(&f.Status, &f.Total, &f.IssueDate); err != nil {
			return nil, translateError(err, "invoice.summary")
		}
		financials = append(financials, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "invoice.summary")
	}

	summary := domain.SummarizeInvoices(financials, now)
	return &summary, nil
}

// UpdateStatus moves an invoice to a new status without touching the
// rest of the row. Used by the send worker for the draft to sent
// transition.
func (s *InvoiceService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	const op = "invoice.update_status"

	if !domain.ValidInvoiceStatus(status) {
		return domain.Invalid(op, "Statut de facture invalide")
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE invoices SET status = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2",
		tenantID, id, status)
	if err != nil {
		return translateError(err, op)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(op, "Facture")
	}
	return nil
}
