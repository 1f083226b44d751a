package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadiapp/kadi/internal/auth"
	"github.com/kadiapp/kadi/internal/domain"
)

// UserService implements domain.UserService using PostgreSQL.
type UserService struct {
	pool *pgxpool.Pool
}

var _ domain.UserService = (*UserService)(nil)

// NewUserService creates a new PostgreSQL-backed user service.
func NewUserService(pool *pgxpool.Pool) *UserService {
	return &UserService{pool: pool}
}

// Signup creates the account, its tenant and its profile in a single
// transaction so a failure at any step leaves no orphaned rows. The
// tenant name comes from the company field, falling back to the email.
func (s *UserService) Signup(ctx context.Context, params domain.SignupParams) (*domain.User, error) {
	const op = "user.signup"

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, domain.Invalid(op, "L'email est requis")
	}
	if len(params.Password) < auth.MinPasswordLength {
		return nil, domain.Invalid(op, "Le mot de passe doit contenir au moins 8 caractères")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, domain.Internal(err, op, "")
	}

	tenantName := strings.TrimSpace(params.Company)
	if tenantName == "" {
		tenantName = email
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, translateError(err, op)
	}
	defer tx.Rollback(ctx)

	var user domain.User
	err = tx.QueryRow(ctx,
		"INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, email, created_at",
		email, hash).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, translateError(err, op)
	}

	var tenantID uuid.UUID
	err = tx.QueryRow(ctx,
		"INSERT INTO tenants (name) VALUES ($1) RETURNING id",
		tenantName).Scan(&tenantID)
	if err != nil {
		return nil, translateError(err, op)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO profiles (user_id, tenant_id, email, company_name) VALUES ($1, $2, $3, $4)",
		user.ID, tenantID, email, strings.TrimSpace(params.Company))
	if err != nil {
		return nil, translateError(err, op)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err, op)
	}

	return &user, nil
}

// Authenticate verifies credentials. Unknown email and bad password
// return the same message so the response does not leak which accounts
// exist.
func (s *UserService) Authenticate(ctx context.Context, params domain.LoginParams) (*domain.User, error) {
	const op = "user.authenticate"

	email := strings.ToLower(strings.TrimSpace(params.Email))

	var user domain.User
	var hash string
	err := s.pool.QueryRow(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Email, &hash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Unauthorized(op, "Email ou mot de passe incorrect")
		}
		return nil, translateError(err, op)
	}

	if err := auth.VerifyPassword(params.Password, hash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.Unauthorized(op, "Email ou mot de passe incorrect")
		}
		return nil, domain.Internal(err, op, "")
	}

	return &user, nil
}

// GetByID fetches an account by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx,
		"SELECT id, email, created_at FROM users WHERE id = $1",
		id).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user.get", "Compte")
		}
		return nil, translateError(err, "user.get")
	}
	return &user, nil
}
