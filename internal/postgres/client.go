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

// ClientService implements domain.ClientService using PostgreSQL.
type ClientService struct {
	pool *pgxpool.Pool
}

// Compile-time check that ClientService implements domain.ClientService.
var _ domain.ClientService = (*ClientService)(nil)

// NewClientService creates a new PostgreSQL-backed client service.
func NewClientService(pool *pgxpool.Pool) *ClientService {
	return &ClientService{pool: pool}
}

const clientColumns = `id, tenant_id, company_name, contact_name, email, phone, address, created_at, updated_at`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.TenantID, &c.CompanyName, &c.ContactName,
		&c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns the tenant's clients, newest first, with optional
// free-text search across company name, contact name, email and phone.
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, q domain.ClientListQuery) ([]domain.Client, int64, error) {
	where := "tenant_id = $1"
	args := []any{tenantID}

	if strings.TrimSpace(q.Search) != "" {
		where += " AND (company_name ILIKE $2 OR contact_name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)"
		args = append(args, searchPattern(q.Search))
	}

	var total int64
	countSQL := "SELECT count(*) FROM clients WHERE " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, translateError(err, "client.list")
	}

	listSQL := fmt.Sprintf(
		"SELECT %s FROM clients WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		clientColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Pagination.PageSize, q.Pagination.OffsetStart)

	rows, err := s.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, translateError(err, "client.list")
	}
	defer rows.Close()

	clients := make([]domain.Client, 0, q.Pagination.PageSize)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, translateError(err, "client.list")
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, "client.list")
	}

	return clients, total, nil
}

// Get fetches one client by ID within the tenant.
func (s *ClientService) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Client, error) {
	sql := fmt.Sprintf("SELECT %s FROM clients WHERE tenant_id = $1 AND id = $2", clientColumns)
	c, err := scanClient(s.pool.QueryRow(ctx, sql, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("client.get", "Client")
		}
		return nil, translateError(err, "client.get")
	}
	return c, nil
}

// Create inserts a new client for the tenant.
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, params domain.CreateClientParams) (*domain.Client, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(`INSERT INTO clients (tenant_id, company_name, contact_name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s`, clientColumns)

	c, err := scanClient(s.pool.QueryRow(ctx, sql,
		tenantID, params.CompanyName, params.ContactName, params.Email, params.Phone, params.Address))
	if err != nil {
		return nil, translateError(err, "client.create")
	}
	return c, nil
}

// Update applies an allow-listed partial update to a client.
func (s *ClientService) Update(ctx context.Context, tenantID, id uuid.UUID, params domain.UpdateClientParams) (*domain.Client, error) {
	if params.Empty() {
		return nil, domain.Invalid("client.update", "Aucune donnée à mettre à jour")
	}

	set := []string{"updated_at = now()"}
	args := []any{tenantID, id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.CompanyName != nil {
		name := strings.TrimSpace(*params.CompanyName)
		if name == "" {
			return nil, domain.Invalid("client.update", "Le nom de l'entreprise est requis")
		}
		add("company_name", name)
	}
	if params.ContactName != nil {
		add("contact_name", *params.ContactName)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Phone != nil {
		add("phone", *params.Phone)
	}
	if params.Address != nil {
		add("address", *params.Address)
	}

	sql := fmt.Sprintf("UPDATE clients SET %s WHERE tenant_id = $1 AND id = $2 RETURNING %s",
		strings.Join(set, ", "), clientColumns)

	c, err := scanClient(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("client.update", "Client")
		}
		return nil, translateError(err, "client.update")
	}
	return c, nil
}

// Delete removes a client from the tenant.
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return translateError(err, "client.delete")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("client.delete", "Client")
	}
	return nil
}
