// Package requestctx carries per-request values through context.Context.
package requestctx

import (
	"context"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
)

// userContextKey is the context key for the signed-in user.
type userContextKey struct{}

// WithUser stores the signed-in user in context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	if ctx == nil {
		return nil
	}
	u, _ := ctx.Value(userContextKey{}).(*model.User)
	return u
}

// UserID returns the signed-in user's id, or 0 for anonymous requests.
func UserID(ctx context.Context) int64 {
	if u := UserFromContext(ctx); u != nil {
		return u.ID
	}
	return 0
}
