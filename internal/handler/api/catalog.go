package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kadiapp/kadi/internal/domain"
)

// ListCatalogItems handles GET /api/products with optional type,
// active, and search filters.
func (h *Handler) ListCatalogItems(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}

	q := domain.CatalogListQuery{
		Search:     c.QueryParam("search"),
		ItemType:   c.QueryParam("type"),
		Pagination: h.pagination(c),
	}
	if raw := c.QueryParam("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			q.Active = &active
		}
	}

	items, total, err := h.Catalog.List(c.Request().Context(), tid, q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listEnvelope{
		Data:       items,
		Pagination: domain.NewPaginationMeta(total, q.Pagination.Page, q.Pagination.PageSize),
	})
}

// GetCatalogItem handles GET /api/products/:id.
func (h *Handler) GetCatalogItem(c echo.Context) error {
	const op = "api.products.get"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	item, err := h.Catalog.Get(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// CreateCatalogItem handles POST /api/products. The raw payload is
// sanitized before it reaches storage; creation defaults the item type.
func (h *Handler) CreateCatalogItem(c echo.Context) error {
	const op = "api.products.create"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}

	var input domain.CatalogItemInput
	if err := c.Bind(&input); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}

	change := domain.SanitizeCatalogInput(input, true, time.Now())

	item, err := h.Catalog.Create(c.Request().Context(), tid, change)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, item)
}

// UpdateCatalogItem handles PATCH /api/products/:id. On update an absent
// item type means "no change", so sanitization does not default it.
func (h *Handler) UpdateCatalogItem(c echo.Context) error {
	const op = "api.products.update"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	var input domain.CatalogItemInput
	if err := c.Bind(&input); err != nil {
		return domain.Invalid(op, "Corps de requête invalide")
	}

	change := domain.SanitizeCatalogInput(input, false, time.Now())

	item, err := h.Catalog.Update(c.Request().Context(), tid, id, change)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteCatalogItem handles DELETE /api/products/:id.
func (h *Handler) DeleteCatalogItem(c echo.Context) error {
	const op = "api.products.delete"

	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, op)
	if err != nil {
		return err
	}

	if err := h.Catalog.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
