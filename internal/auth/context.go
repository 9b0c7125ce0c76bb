package auth

import (
	"context"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
)

// UserContext holds the authenticated caller
type UserContext struct {
	UserID      uuid.UUID
	Username    string
	DisplayName string
	Role        string
	// Anonymous marks the placeholder user attached when auth is not required
	Anonymous bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// systemUserID identifies requests authenticated with the admin API key
var systemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000000")

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// IsAdmin reports whether the user may use admin-only endpoints
func (u *UserContext) IsAdmin() bool {
	return !u.Anonymous && u.Role == domain.RoleAdmin
}

// Actor is the name recorded on payments and audit entries
func (u *UserContext) Actor() string {
	if u.Anonymous || u.Username == "" {
		return "admin"
	}
	return u.Username
}

func systemUser() *UserContext {
	return &UserContext{
		UserID:      systemUserID,
		Username:    "system",
		DisplayName: "System",
		Role:        domain.RoleAdmin,
	}
}

func anonymousUser() *UserContext {
	return &UserContext{
		UserID:      uuid.Nil,
		Username:    "anonymous",
		DisplayName: "Anonymous",
		Role:        domain.RoleStaff,
		Anonymous:   true,
	}
}
