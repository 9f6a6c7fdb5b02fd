package http

import (
	"context"

	"github.com/atelier-store/atelier/internal/domain/user"
)

// identityContextKey is the type for the resolved-caller context key.
type identityContextKey struct{}

// SetUser returns a context carrying the resolved caller.
func SetUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, identityContextKey{}, u)
}

// UserFromContext retrieves the resolved caller from context.
// Returns nil for anonymous requests.
func UserFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(identityContextKey{}).(*user.User)
	return u
}
