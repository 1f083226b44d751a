package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kadiapp/kadi/internal/domain"
)

// Claims is the JWT payload issued at login. Subject carries the user
// ID; Email rides along so callers avoid one lookup.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the HS256 session tokens used by the
// API. The secret never rotates at runtime; restart with a new secret
// to invalidate all sessions.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer. TTL defaults to 24 hours when
// non-positive.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs a token for the given account.
func (t *TokenIssuer) Issue(userID uuid.UUID, email string, now time.Time) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", domain.Internal(err, "auth.issue", "")
	}
	return signed, nil
}

// Verify parses and validates a bearer token, returning the user ID and
// email it carries. Every failure maps to EUNAUTHORIZED so the edge can
// answer 401 without inspecting the cause.
func (t *TokenIssuer) Verify(raw string) (uuid.UUID, string, error) {
	const op = "auth.verify"

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", domain.Unauthorized(op, "Session invalide ou expirée")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", domain.Unauthorized(op, "Session invalide ou expirée")
	}

	return userID, claims.Email, nil
}
