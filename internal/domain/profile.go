package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation boundary owning clients, catalog items and
// invoices. Created implicitly on first signup; never deleted.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile links an authenticated principal to a tenant and carries the
// company metadata printed on invoices.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name,omitempty"`
	Tagline     string    `json:"tagline,omitempty"`
	AddressLine string    `json:"address_line,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Country     string    `json:"country,omitempty"`
	Siret       string    `json:"siret,omitempty"`
	VATNumber   string    `json:"vat_number,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateProfileParams is the allow-listed partial update for a profile.
// Nil fields are left unchanged.
type UpdateProfileParams struct {
	Email       *string `json:"email"`
	CompanyName *string `json:"company_name"`
	Tagline     *string `json:"tagline"`
	AddressLine *string `json:"address_line"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`
	Siret       *string `json:"siret"`
	VATNumber   *string `json:"vat_number"`
	LogoURL     *string `json:"logo_url"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website"`
}

// Empty reports whether the update carries no field at all.
func (p UpdateProfileParams) Empty() bool {
	return p.Email == nil && p.CompanyName == nil && p.Tagline == nil &&
		p.AddressLine == nil && p.City == nil && p.PostalCode == nil &&
		p.Country == nil && p.Siret == nil && p.VATNumber == nil &&
		p.LogoURL == nil && p.Phone == nil && p.Website == nil
}

// ProfileService resolves and mutates the profile of an authenticated
// principal. GetByUserID is the per-request tenant resolution path and
// must not cache across requests.
type ProfileService interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*Profile, error)
}
