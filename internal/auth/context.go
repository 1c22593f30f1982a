package auth

import (
	"context"

	"github.com/saramagdits/landscaping-saas/internal/store"
)

type contextKey string

const contextKeyUser contextKey = "user"

func WithUser(ctx context.Context, user *store.UserProfile) context.Context {
	return context.WithValue(ctx, contextKeyUser, user)
}

func UserFromContext(ctx context.Context) (*store.UserProfile, bool) {
	u, ok := ctx.Value(contextKeyUser).(*store.UserProfile)
	return u, ok
}
