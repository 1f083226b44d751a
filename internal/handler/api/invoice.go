package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kadiapp/kadi/internal/domain"
	"github.com/kadiapp/kadi/internal/jobs"
)

// ListInvoices handles GET /api/invoices. Every row embeds its client.
func (h *Handler) ListInvoices(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}

	q := domain.InvoiceListQuery{Pagination: h.pagination(c)}

	invoices, total, err := h.Invoices.List(c.Request().Context(), tid, q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listEnvelope{
		Data:       invoices,
		Pagination: domain.NewPaginationMeta(total, q.Pagination.Page, q.Pagination.PageSize),
	})
}

// GetInvoice handles GET /api/invoices/:id.
func (h *Handler) GetInvoice(c echo.Context) error {
	const op = "api.invoices.get"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	invoice, err := h.Invoices.Get(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, invoice)
}

// CreateInvoice handles POST /api/invoices.
func (h *Handler) CreateInvoice(c echo.Context) error {
	const op = "api.invoices.create"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}

	var params domain.CreateInvoiceParams
	if err := h.bind(c, op, &params); err != nil {
		return err
	}

	invoice, err := h.Invoices.Create(c.Request().Context(), tid, params)
	if err != nil {
		return err
	}

	h.Metrics.InvoicesCreated.WithLabelValues(tid.String()).Inc()
	return c.JSON(http.StatusCreated, invoice)
}

// UpdateInvoice handles PATCH /api/invoices/:id. Replacing the items
// recomputes the stored totals.
func (h *Handler) UpdateInvoice(c echo.Context) error {
	const op = "api.invoices.update"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	var params domain.UpdateInvoiceParams
	if err := c.Bind(&params); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}

	invoice, err := h.Invoices.Update(c.Request().Context(), tid, id, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /api/invoices/:id.
func (h *Handler) DeleteInvoice(c echo.Context) error {
	const op = "api.invoices.delete"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	if err := h.Invoices.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// InvoiceSummary handles GET /api/invoices/summary: monthly paid
// revenue, outstanding amount, and the all-time paid count.
func (h *Handler) InvoiceSummary(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}

	summary, err := h.Invoices.Summary(c.Request().Context(), tid, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

// InvoicePDF handles GET /api/invoices/pdf/:id, streaming the rendered
// document inline.
func (h *Handler) InvoicePDF(c echo.Context) error {
	const op = "api.invoices.pdf"
	ctx := c.Request().Context()

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	invoice, err := h.Invoices.Get(ctx, tid, id)
	if err != nil {
		return err
	}

	var issuer *domain.Profile
	if principal := domain.PrincipalFromContext(ctx); principal != nil {
		// Best effort: the PDF renders without company metadata too.
		issuer, _ = h.Profiles.GetByUserID(ctx, principal.UserID)
	}

	doc, err := h.Renderer.Render(invoice, issuer)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("inline; filename=%q", invoice.InvoiceNumber+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

// SendInvoice handles POST /api/invoices/:id/send. The heavy work
// (rendering, SMTP) happens in the worker; this endpoint only checks
// preconditions and enqueues the job.
func (h *Handler) SendInvoice(c echo.Context) error {
	const op = "api.invoices.send"
	ctx := c.Request().Context()

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	invoice, err := h.Invoices.Get(ctx, tid, id)
	if err != nil {
		return err
	}
	if invoice.Client == nil || invoice.Client.Email == "" {
		return domain.Invalid(op, "Le client n'a pas d'adresse email")
	}

	job := jobs.SendInvoice{
		TenantID:  tid,
		InvoiceID: invoice.ID,
		UserID:    domain.UserIDFromContext(ctx),
	}
	if err := h.Publisher.PublishSendInvoice(ctx, job); err != nil {
		return err
	}

	h.Metrics.InvoicesSent.WithLabelValues(tid.String()).Inc()
	h.Logger.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("invoice_number", invoice.InvoiceNumber).
		Msg("invoice send queued")

	return c.JSON(http.StatusAccepted, echo.Map{"status": "queued"})
}
