package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. Passwords are stored as bcrypt
// hashes and never leave the storage layer.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupParams is the payload for account creation. A tenant and a
// profile are created alongside the user; Company seeds the tenant name
// and falls back to the email when absent.
type SignupParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Company  string `json:"company"`
}

// LoginParams is the payload for authentication.
type LoginParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserService owns account lifecycle and credential verification.
type UserService interface {
	// Signup creates the user, its tenant and its profile in one
	// transaction. Fails with ECONFLICT when the email is taken.
	Signup(ctx context.Context, params SignupParams) (*User, error)

	// Authenticate verifies credentials and returns the account.
	// Fails with EUNAUTHORIZED on unknown email or bad password.
	Authenticate(ctx context.Context, params LoginParams) (*User, error)

	// GetByID fetches an account by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}
