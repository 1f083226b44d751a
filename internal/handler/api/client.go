package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kadiapp/kadi/internal/domain"
)

// ListClients handles GET /api/clients?search=&page=&pageSize=.
func (h *Handler) ListClients(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}

	q := domain.ClientListQuery{
		Search:     c.QueryParam("search"),
		Pagination: h.pagination(c),
	}

	clients, total, err := h.Clients.List(c.Request().Context(), tid, q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listEnvelope{
		Data:       clients,
		Pagination: domain.NewPaginationMeta(total, q.Pagination.Page, q.Pagination.PageSize),
	})
}

// GetClient handles GET /api/clients/:id.
func (h *Handler) GetClient(c echo.Context) error {
	const op = "api.clients.get"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	client, err := h.Clients.Get(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, client)
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(c echo.Context) error {
	const op = "api.clients.create"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}

	var params domain.CreateClientParams
	if err := c.Bind(&params); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}

	client, err := h.Clients.Create(c.Request().Context(), tid, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, client)
}

// UpdateClient handles PATCH /api/clients/:id.
func (h *Handler) UpdateClient(c echo.Context) error {
	const op = "api.clients.update"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	var params domain.UpdateClientParams
	if err := c.Bind(&params); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}

	client, err := h.Clients.Update(c.Request().Context(), tid, id, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id.
func (h *Handler) DeleteClient(c echo.Context) error {
	const op = "api.clients.delete"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	if err := h.Clients.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
