package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kadiapp/kadi/internal/domain"
)

// draftRequest is the body of POST /api/ai/facture. The field name is
// French to match the frontend contract.
type draftRequest struct {
	Texte string `json:"texte"`
}

// DraftInvoice handles POST /api/ai/facture: one synchronous JSON-mode
// completion, returned verbatim for the frontend to merge into its
// draft form.
func (h *Handler) DraftInvoice(c echo.Context) error {
	const op = "api.ai.facture"

	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}

	draft, err := h.Drafter.DraftInvoice(c.Request().Context(), req.Texte)
	if err != nil {
		return err
	}

	if tid := domain.TenantIDFromContext(c.Request().Context()); tid != uuid.Nil {
		h.Metrics.AIDrafts.WithLabelValues(tid.String()).Inc()
	}
	return c.JSONBlob(http.StatusOK, draft)
}
