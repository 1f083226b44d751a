package domain

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Catalog item types. Invalid values are silently coerced to
// ItemTypeProduct on creation.
const (
	ItemTypeProduct = "product"
	ItemTypeService = "service"
)

// CatalogItem is a sellable product or service template, reusable
// across invoices.
type CatalogItem struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ItemType    string    `json:"item_type"`
	UnitPrice   float64   `json:"unit_price"`
	Currency    string    `json:"currency"`
	SKU         *string   `json:"sku"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CatalogListQuery holds list filters for catalog items.
type CatalogListQuery struct {
	// Search matches name, description and SKU.
	Search string
	// ItemType filters on the item type enum when non-empty.
	ItemType string
	// Active filters on the active flag when non-nil.
	Active     *bool
	Pagination PaginationParams
}

// CatalogItemInput is the raw, untrusted payload for catalog item
// creation and update. Pointer fields distinguish "absent" from
// "present but zero"; everything outside this set is dropped at bind
// time.
type CatalogItemInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	ItemType    *string  `json:"item_type"`
	UnitPrice   *float64 `json:"unit_price"`
	Currency    *string  `json:"currency"`
	SKU         *string  `json:"sku"`
	IsActive    *bool    `json:"is_active"`
}

// OptionalString distinguishes an absent field from one explicitly set,
// possibly to NULL. Used for the SKU, where an empty string normalizes
// to "absent" in storage.
type OptionalString struct {
	Set   bool
	Valid bool
	Value string
}

// CatalogChange is the sanitized, allow-listed field set that may flow
// into persistence. Nil pointers mean "no change". UpdatedAt is stamped
// whenever at least one field is present.
type CatalogChange struct {
	Name        *string
	Description *string
	ItemType    *string
	UnitPrice   *float64
	Currency    *string
	SKU         OptionalString
	IsActive    *bool
	UpdatedAt   *time.Time
}

// Empty reports whether sanitization yielded no field to persist.
func (c CatalogChange) Empty() bool {
	return c.Name == nil && c.Description == nil && c.ItemType == nil &&
		c.UnitPrice == nil && c.Currency == nil && !c.SKU.Set && c.IsActive == nil
}

// SanitizeCatalogInput narrows an arbitrary input payload to the
// allow-listed, type-coerced field set.
//
//   - name and description are trimmed
//   - item_type is lower-cased and validated against {product, service};
//     when ensureType is true (creation) an invalid or missing value
//     defaults to "product", otherwise the field is left absent so an
//     update without it means "no change"
//   - unit_price is coerced to 0 when non-finite
//   - currency is upper-cased
//   - an empty-string SKU normalizes to an explicit NULL
//   - is_active is carried through when present
//
// The updated-at timestamp is stamped whenever the result is non-empty.
func SanitizeCatalogInput(in CatalogItemInput, ensureType bool, now time.Time) CatalogChange {
	var out CatalogChange

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		out.Name = &name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		out.Description = &desc
	}

	if in.ItemType != nil {
		t := strings.ToLower(strings.TrimSpace(*in.ItemType))
		if t != ItemTypeProduct && t != ItemTypeService {
			t = ItemTypeProduct
		}
		out.ItemType = &t
	} else if ensureType {
		t := ItemTypeProduct
		out.ItemType = &t
	}

	if in.UnitPrice != nil {
		price := *in.UnitPrice
		if math.IsNaN(price) || math.IsInf(price, 0) {
			price = 0
		}
		out.UnitPrice = &price
	}

	if in.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*in.Currency))
		out.Currency = &cur
	}

	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			out.SKU = OptionalString{Set: true}
		} else {
			out.SKU = OptionalString{Set: true, Valid: true, Value: sku}
		}
	}

	if in.IsActive != nil {
		active := *in.IsActive
		out.IsActive = &active
	}

	if !out.Empty() {
		stamp := now
		out.UpdatedAt = &stamp
	}

	return out
}

// CatalogService is the tenant-scoped data access contract for catalog
// items.
type CatalogService interface {
	List(ctx context.Context, tenantID uuid.UUID, q CatalogListQuery) ([]CatalogItem, int64, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*CatalogItem, error)
	Create(ctx context.Context, tenantID uuid.UUID, change CatalogChange) (*CatalogItem, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, change CatalogChange) (*CatalogItem, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
