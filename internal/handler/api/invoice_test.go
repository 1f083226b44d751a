package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadiapp/kadi/internal/domain"
	"github.com/kadiapp/kadi/internal/jobs"
)

// stubInvoices implements domain.InvoiceService in memory, computing
// totals the way the real service does.
type stubInvoices struct {
	domain.InvoiceService

	invoices []domain.Invoice
	summary  *domain.InvoiceSummary
}

func (s *stubInvoices) List(ctx context.Context, tenantID uuid.UUID, q domain.InvoiceListQuery) ([]domain.Invoice, int64, error) {
	return s.invoices, int64(len(s.invoices)), nil
}

func (s *stubInvoices) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Invoice, error) {
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			return &s.invoices[i], nil
		}
	}
	return nil, domain.NotFound("invoice.get", "Facture")
}

func (s *stubInvoices) Create(ctx context.Context, tenantID uuid.UUID, params domain.CreateInvoiceParams) (*domain.Invoice, error) {
	if params.ClientID == uuid.Nil {
		return nil, domain.Invalid("invoice.create", "Le client est requis")
	}
	totals := domain.ComputeTotals(params.Items)
	inv := domain.Invoice{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ClientID:      params.ClientID,
		InvoiceNumber: "FAC-654321",
		Status:        domain.InvoiceStatusDraft,
		Currency:      domain.DefaultInvoiceCurrency,
		Items:         params.Items,
		Subtotal:      totals.Subtotal,
		Total:         totals.Total,
	}
	s.invoices = append(s.invoices, inv)
	return &inv, nil
}

func (s *stubInvoices) Summary(ctx context.Context, tenantID uuid.UUID, now time.Time) (*domain.InvoiceSummary, error) {
	return s.summary, nil
}

// capturePublisher records published jobs.
type capturePublisher struct {
	jobs []jobs.SendInvoice
	err  error
}

func (p *capturePublisher) PublishSendInvoice(ctx context.Context, job jobs.SendInvoice) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

// newTestContext builds an Echo context whose request context carries
// the tenant, the way the auth middleware would have left it.
func newTestContext(t *testing.T, method, target, body string, tenant uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tenant != uuid.Nil {
		ctx := domain.NewContextWithTenant(req.Context(), tenant)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func newTestHandler(invoices *stubInvoices, publisher jobs.Publisher) *Handler {
	return New(Handler{
		Invoices:  invoices,
		Publisher: publisher,
		Logger:    zerolog.Nop(),
	})
}

func TestCreateInvoice(t *testing.T) {
	tenant := uuid.New()
	clientID := uuid.New()

	t.Run("computes and returns totals", func(t *testing.T) {
		h := newTestHandler(&stubInvoices{}, nil)
		body := `{"client_id":"` + clientID.String() + `","items":[{"description":"Conseil","quantity":2,"unitPrice":450.5}]}`
		c, rec := newTestContext(t, http.MethodPost, "/api/invoices", body, tenant)

		require.NoError(t, h.CreateInvoice(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var inv domain.Invoice
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
		assert.Equal(t, clientID, inv.ClientID)
		assert.Equal(t, domain.InvoiceStatusDraft, inv.Status)
		assert.InDelta(t, 901.0, inv.Subtotal, 0.001)
		assert.InDelta(t, 901.0, inv.Total, 0.001)
	})

	t.Run("missing client is invalid", func(t *testing.T) {
		h := newTestHandler(&stubInvoices{}, nil)
		c, _ := newTestContext(t, http.MethodPost, "/api/invoices", `{"items":[]}`, tenant)

		err := h.CreateInvoice(c)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("missing tenant is forbidden", func(t *testing.T) {
		h := newTestHandler(&stubInvoices{}, nil)
		c, _ := newTestContext(t, http.MethodPost, "/api/invoices", `{"client_id":"`+clientID.String()+`"}`, uuid.Nil)

		err := h.CreateInvoice(c)
		assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
	})
}

func TestListInvoices(t *testing.T) {
	tenant := uuid.New()
	stub := &stubInvoices{invoices: []domain.Invoice{
		{ID: uuid.New(), InvoiceNumber: "FAC-000001"},
		{ID: uuid.New(), InvoiceNumber: "FAC-000002"},
	}}
	h := newTestHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/invoices?page=1&pageSize=10", "", tenant)
	require.NoError(t, h.ListInvoices(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data       []domain.Invoice      `json:"data"`
		Pagination domain.PaginationMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, int64(2), envelope.Pagination.Total)
	assert.Equal(t, 1, envelope.Pagination.Page)
	assert.Equal(t, 10, envelope.Pagination.PageSize)
	assert.Equal(t, 1, envelope.Pagination.TotalPages)
}

func TestInvoiceSummary(t *testing.T) {
	tenant := uuid.New()
	stub := &stubInvoices{summary: &domain.InvoiceSummary{
		MonthlyRevenue: 1200.50,
		Outstanding:    300,
		PaidCount:      7,
	}}
	h := newTestHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/invoices/summary", "", tenant)
	require.NoError(t, h.InvoiceSummary(c))

	var got map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.InDelta(t, 1200.50, got["monthlyRevenue"], 0.001)
	assert.InDelta(t, 300, got["outstanding"], 0.001)
	assert.InDelta(t, 7, got["paid"], 0.001)
}

func TestSendInvoice(t *testing.T) {
	tenant := uuid.New()

	invoiceWithEmail := domain.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "FAC-000042",
		Status:        domain.InvoiceStatusDraft,
		Client:        &domain.Client{Email: "client@example.fr"},
	}
	invoiceNoEmail := domain.Invoice{
		ID:     uuid.New(),
		Client: &domain.Client{CompanyName: "Sans Email SARL"},
	}

	t.Run("queues the job", func(t *testing.T) {
		publisher := &capturePublisher{}
		h := newTestHandler(&stubInvoices{invoices: []domain.Invoice{invoiceWithEmail}}, publisher)

		c, rec := newTestContext(t, http.MethodPost, "/api/invoices/"+invoiceWithEmail.ID.String()+"/send", "", tenant)
		c.SetParamNames("id")
		c.SetParamValues(invoiceWithEmail.ID.String())

		require.NoError(t, h.SendInvoice(c))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, publisher.jobs, 1)
		assert.Equal(t, invoiceWithEmail.ID, publisher.jobs[0].InvoiceID)
		assert.Equal(t, tenant, publisher.jobs[0].TenantID)
	})

	t.Run("rejects client without email", func(t *testing.T) {
		publisher := &capturePublisher{}
		h := newTestHandler(&stubInvoices{invoices: []domain.Invoice{invoiceNoEmail}}, publisher)

		c, _ := newTestContext(t, http.MethodPost, "/api/invoices/"+invoiceNoEmail.ID.String()+"/send", "", tenant)
		c.SetParamNames("id")
		c.SetParamValues(invoiceNoEmail.ID.String())

		err := h.SendInvoice(c)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		assert.Empty(t, publisher.jobs)
	})

	t.Run("unknown invoice id", func(t *testing.T) {
		h := newTestHandler(&stubInvoices{}, &capturePublisher{})

		c, _ := newTestContext(t, http.MethodPost, "/api/invoices/"+uuid.NewString()+"/send", "", tenant)
		c.SetParamNames("id")
		c.SetParamValues(uuid.NewString())

		err := h.SendInvoice(c)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})
}
