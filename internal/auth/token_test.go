package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadiapp/kadi/internal/domain"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "kadi", time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, "marie@example.fr", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotID, gotEmail, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "marie@example.fr", gotEmail)
}

func TestTokenIssuerRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", "kadi", time.Hour)
	other := NewTokenIssuer("secret-b", "kadi", time.Hour)

	token, err := issuer.Issue(uuid.New(), "marie@example.fr", time.Now())
	require.NoError(t, err)

	_, _, err = other.Verify(token)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "kadi", time.Minute)

	token, err := issuer.Issue(uuid.New(), "marie@example.fr", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, _, err = issuer.Verify(token)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "kadi", time.Hour)

	_, _, err := issuer.Verify("not-a-token")
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestHashPassword(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery")
		require.NoError(t, err)
		assert.NoError(t, VerifyPassword("correct horse battery", hash))
		assert.ErrorIs(t, VerifyPassword("wrong password", hash), ErrPasswordMismatch)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := HashPassword("short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}
