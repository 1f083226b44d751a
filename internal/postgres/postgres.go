// Package postgres implements the domain service interfaces against
// PostgreSQL. Every tenant-scoped query filters on the tenant ID passed
// by the caller; no operation can run unscoped.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadiapp/kadi/internal/domain"
)

// PostgreSQL error codes worth translating for callers.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrInvalidTextRepr     = "22P02"
)

// Connect opens a pgx connection pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

// translateError maps datastore failures onto domain errors so the HTTP
// error mapper never has to know about PostgreSQL. Constraint names and
// SQLSTATE details stay in the wrapped error for server-side logging.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "sku") {
				return domain.WrapError(err, domain.ECONFLICT, op, "Ce SKU est déjà utilisé par un autre article")
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return domain.WrapError(err, domain.ECONFLICT, op, "Un compte existe déjà avec cet email")
			}
			return domain.WrapError(err, domain.ECONFLICT, op, "Cette valeur est déjà utilisée")
		case pgErrForeignKeyViolation:
			return domain.WrapError(err, domain.ECONFLICT, op, "Opération impossible: des données liées existent")
		case pgErrInvalidTextRepr:
			return domain.WrapError(err, domain.EINVALID, op, "Format de données invalide")
		}
	}

	return domain.Internal(err, op, "database query failed")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern turns free text into an ILIKE pattern. Wildcard
// characters in the input are escaped so they match literally.
func searchPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(q)) + "%"
}
