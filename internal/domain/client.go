package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is a billable customer of a tenant.
type Client struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	CompanyName string    `json:"company_name"`
	ContactName string    `json:"contact_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClientListQuery holds list filters for clients.
type ClientListQuery struct {
	// Search matches company name, contact name, email and phone.
	Search     string
	Pagination PaginationParams
}

// CreateClientParams is the allow-listed field set for client creation.
type CreateClientParams struct {
	CompanyName string `json:"company_name" validate:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// UpdateClientParams is the allow-listed partial update for a client.
// Nil fields are left unchanged.
type UpdateClientParams struct {
	CompanyName *string `json:"company_name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

// Empty reports whether the update carries no field at all.
func (p UpdateClientParams) Empty() bool {
	return p.CompanyName == nil && p.ContactName == nil && p.Email == nil &&
		p.Phone == nil && p.Address == nil
}

// Validate applies creation rules shared with the original product:
// company name is the only required field.
func (p *CreateClientParams) Validate() error {
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	if p.CompanyName == "" {
		return Invalid("client.create", "Le nom de l'entreprise est requis")
	}
	return nil
}

// ClientService is the tenant-scoped data access contract for clients.
// The tenant ID is a mandatory argument on every operation so an
// unscoped query is structurally impossible.
type ClientService interface {
	List(ctx context.Context, tenantID uuid.UUID, q ClientListQuery) ([]Client, int64, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	Create(ctx context.Context, tenantID uuid.UUID, params CreateClientParams) (*Client, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, params UpdateClientParams) (*Client, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
