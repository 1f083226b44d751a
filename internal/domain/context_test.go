package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, uuid.Nil, TenantIDFromContext(ctx))

	_, err := RequireTenantID(ctx)
	require.Error(t, err)
	assert.Equal(t, EFORBIDDEN, ErrorCode(err))

	id := uuid.New()
	ctx = NewContextWithTenant(ctx, id)
	assert.Equal(t, id, TenantIDFromContext(ctx))

	got, err := RequireTenantID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))
	assert.False(t, IsAuthenticated(ctx))
	assert.Equal(t, uuid.Nil, UserIDFromContext(ctx))

	p := &Principal{UserID: uuid.New(), TenantID: uuid.New(), Email: "marie@exemple.fr"}
	ctx = NewContextWithPrincipal(ctx, p)
	assert.True(t, IsAuthenticated(ctx))
	assert.Equal(t, p.UserID, UserIDFromContext(ctx))
	assert.Equal(t, p, PrincipalFromContext(ctx))
}
