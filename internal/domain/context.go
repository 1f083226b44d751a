// Package domain provides core business types and context helpers for Kadi.
//
// Context helpers centralize request-scoped data access, making tenant
// isolation bugs harder to write and providing consistent patterns
// throughout the codebase.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// tenantContextKey stores the resolved tenant ID in context.
	tenantContextKey contextKey = iota

	// userContextKey stores the authenticated principal in context.
	userContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Principal represents the authenticated caller stored in context.
// This is a minimal struct for context storage - the full profile
// record can be fetched from the database if needed.
type Principal struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Email    string
}

// --- Tenant Context Helpers ---

// NewContextWithTenant returns a new context with the tenant ID attached.
func NewContextWithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenantID)
}

// TenantIDFromContext retrieves the tenant ID from context.
// Returns uuid.Nil if no tenant is present.
func TenantIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(tenantContextKey).(uuid.UUID)
	return id
}

// RequireTenantID retrieves the tenant ID from context.
// Returns ErrTenantRequired when absent. Use this in service layers where
// every scoped operation must carry a tenant.
func RequireTenantID(ctx context.Context) (uuid.UUID, error) {
	id := TenantIDFromContext(ctx)
	if id == uuid.Nil {
		return uuid.Nil, ErrTenantRequired
	}
	return id, nil
}

// --- Principal Context Helpers ---

// NewContextWithPrincipal returns a new context with the principal attached.
func NewContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, userContextKey, p)
}

// PrincipalFromContext retrieves the principal from context.
// Returns nil if no principal is present.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(userContextKey).(*Principal)
	return p
}

// UserIDFromContext retrieves the authenticated user ID from context.
// Returns uuid.Nil if no principal is present.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.UserID
	}
	return uuid.Nil
}

// IsAuthenticated returns true if there is a principal in context.
func IsAuthenticated(ctx context.Context) bool {
	return PrincipalFromContext(ctx) != nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
