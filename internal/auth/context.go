package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID   uuid.UUID
	Username string
	FullName string
	Role     domain.UserRole
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if the user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.Role == role
}

// IsManager checks if the user holds the manager role
func (u *UserContext) IsManager() bool {
	return u.Role == domain.UserRoleManager
}
