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

// ProfileService implements domain.ProfileService using PostgreSQL.
type ProfileService struct {
	pool *pgxpool.Pool
}

var _ domain.ProfileService = (*ProfileService)(nil)

// NewProfileService creates a new PostgreSQL-backed profile service.
func NewProfileService(pool *pgxpool.Pool) *ProfileService {
	return &ProfileService{pool: pool}
}

const profileColumns = `id, user_id, tenant_id, email, company_name, tagline, address_line, city,
	postal_code, country, siret, vat_number, logo_url, phone, website, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.TenantID, &p.Email, &p.CompanyName,
		&p.Tagline, &p.AddressLine, &p.City, &p.PostalCode, &p.Country,
		&p.Siret, &p.VATNumber, &p.LogoURL, &p.Phone, &p.Website,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID resolves the profile of an authenticated principal. This
// is the per-request tenant resolution path, so it always hits the
// database and never caches.
func (s *ProfileService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	sql := fmt.Sprintf("SELECT %s FROM profiles WHERE user_id = $1", profileColumns)
	p, err := scanProfile(s.pool.QueryRow(ctx, sql, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("profile.get", "Profil")
		}
		return nil, translateError(err, "profile.get")
	}
	return p, nil
}

// Update applies a partial update to the principal's profile.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, params domain.UpdateProfileParams) (*domain.Profile, error) {
	const op = "profile.update"

	if params.Empty() {
		return nil, domain.Invalid(op, "Aucune donnée à mettre à jour")
	}

	var set []string
	args := []any{userID}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Email != nil {
		add("email", strings.TrimSpace(*params.Email))
	}
	if params.CompanyName != nil {
		add("company_name", strings.TrimSpace(*params.CompanyName))
	}
	if params.Tagline != nil {
		add("tagline", *params.Tagline)
	}
	if params.AddressLine != nil {
		add("address_line", *params.AddressLine)
	}
	if params.City != nil {
		add("city", *params.City)
	}
	if params.PostalCode != nil {
		add("postal_code", *params.PostalCode)
	}
	if params.Country != nil {
		add("country", *params.Country)
	}
	if params.Siret != nil {
		add("siret", *params.Siret)
	}
	if params.VATNumber != nil {
		add("vat_number", *params.VATNumber)
	}
	if params.LogoURL != nil {
		add("logo_url", *params.LogoURL)
	}
	if params.Phone != nil {
		add("phone", *params.Phone)
	}
	if params.Website != nil {
		add("website", *params.Website)
	}
	set = append(set, "updated_at = now()")

	sql := fmt.Sprintf("UPDATE profiles SET %s WHERE user_id = $1 RETURNING %s",
		strings.Join(set, ", "), profileColumns)

	p, err := scanProfile(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "Profil")
		}
		return nil, translateError(err, op)
	}
	return p, nil
}
