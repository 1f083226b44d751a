package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadiapp/kadi/internal/domain"
)

// CatalogService implements domain.CatalogService using PostgreSQL.
type CatalogService struct {
	pool *pgxpool.Pool
}

var _ domain.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new PostgreSQL-backed catalog service.
func NewCatalogService(pool *pgxpool.Pool) *CatalogService {
	return &CatalogService{pool: pool}
}

const catalogColumns = `id, tenant_id, name, description, item_type, unit_price, currency, sku, is_active, created_at, updated_at`

func scanCatalogItem(row pgx.Row) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := row.Scan(&item.ID, &item.TenantID, &item.Name, &item.Description,
		&item.ItemType, &item.UnitPrice, &item.Currency, &item.SKU,
		&item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the tenant's catalog items, newest first, filtered by
// type, active flag, and free-text search across name/description/SKU.
func (s *CatalogService) List(ctx context.Context, tenantID uuid.UUID, q domain.CatalogListQuery) ([]domain.CatalogItem, int64, error) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if strings.TrimSpace(q.Search) != "" {
		args = append(args, searchPattern(q.Search))
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR sku ILIKE $%d)", n, n, n))
	}
	if q.ItemType != "" {
		args = append(args, strings.ToLower(q.ItemType))
		where = append(where, fmt.Sprintf("item_type = $%d", len(args)))
	}
	if q.Active != nil {
		args = append(args, *q.Active)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM catalog_items WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, translateError(err, "catalog.list")
	}

	listSQL := fmt.Sprintf(
		"SELECT %s FROM catalog_items WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		catalogColumns, cond, len(args)+1, len(args)+2)
	args = append(args, q.Pagination.PageSize, q.Pagination.OffsetStart)

	rows, err := s.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, translateError(err, "catalog.list")
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0, q.Pagination.PageSize)
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, 0, translateError(err, "catalog.list")
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, "catalog.list")
	}

	return items, total, nil
}

// Get fetches one catalog item by ID within the tenant.
func (s *CatalogService) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.CatalogItem, error) {
	sql := fmt.Sprintf("SELECT %s FROM catalog_items WHERE tenant_id = $1 AND id = $2", catalogColumns)
	item, err := scanCatalogItem(s.pool.QueryRow(ctx, sql, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("catalog.get", "Article")
		}
		return nil, translateError(err, "catalog.get")
	}
	return item, nil
}

// Create inserts a sanitized catalog item for the tenant. The change
// must carry a non-empty name; the SKU uniqueness constraint surfaces
// as a conflict.
func (s *CatalogService) Create(ctx context.Context, tenantID uuid.UUID, change domain.CatalogChange) (*domain.CatalogItem, error) {
	if change.Name == nil || *change.Name == "" {
		return nil, domain.Invalid("catalog.create", "Le nom est requis")
	}

	description := ""
	if change.Description != nil {
		description = *change.Description
	}
	itemType := domain.ItemTypeProduct
	if change.ItemType != nil {
		itemType = *change.ItemType
	}
	unitPrice := 0.0
	if change.UnitPrice != nil {
		unitPrice = *change.UnitPrice
	}
	currency := "EUR"
	if change.Currency != nil && *change.Currency != "" {
		currency = *change.Currency
	}
	var sku *string
	if change.SKU.Set && change.SKU.Valid {
		sku = &change.SKU.Value
	}
	isActive := true
	if change.IsActive != nil {
		isActive = *change.IsActive
	}

	sql := fmt.Sprintf(`INSERT INTO catalog_items (tenant_id, name, description, item_type, unit_price, currency, sku, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING %s`, catalogColumns)

	item, err := scanCatalogItem(s.pool.QueryRow(ctx, sql,
		tenantID, *change.Name, description, itemType, unitPrice, currency, sku, isActive))
	if err != nil {
		return nil, translateError(err, "catalog.create")
	}
	return item, nil
}

// Update applies a sanitized partial update to a catalog item. An empty
// change set is a validation error: there is nothing to persist.
func (s *CatalogService) Update(ctx context.Context, tenantID, id uuid.UUID, change domain.CatalogChange) (*domain.CatalogItem, error) {
	if change.Empty() {
		return nil, domain.Invalid("catalog.update", "Aucune donnée à mettre à jour")
	}

	var set []string
	args := []any{tenantID, id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if change.Name != nil {
		if *change.Name == "" {
			return nil, domain.Invalid("catalog.update", "Le nom est requis")
		}
		add("name", *change.Name)
	}
	if change.Description != nil {
		add("description", *change.Description)
	}
	if change.ItemType != nil {
		add("item_type", *change.ItemType)
	}
	if change.UnitPrice != nil {
		add("unit_price", *change.UnitPrice)
	}
	if change.Currency != nil {
		add("currency", *change.Currency)
	}
	if change.SKU.Set {
		if change.SKU.Valid {
			add("sku", change.SKU.Value)
		} else {
			add("sku", nil)
		}
	}
	if change.IsActive != nil {
		add("is_active", *change.IsActive)
	}
	if change.UpdatedAt != nil {
		add("updated_at", *change.UpdatedAt)
	}

	sql := fmt.Sprintf("UPDATE catalog_items SET %s WHERE tenant_id = $1 AND id = $2 RETURNING %s",
		strings.Join(set, ", "), catalogColumns)

	item, err := scanCatalogItem(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("catalog.update", "Article")
		}
		return nil, translateError(err, "catalog.update")
	}
	return item, nil
}

// Delete removes a catalog item from the tenant.
func (s *CatalogService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM catalog_items WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return translateError(err, "catalog.delete")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("catalog.delete", "Article")
	}
	return nil
}
