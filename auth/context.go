package auth

import (
	"context"

	"goTwitter/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser attaches the authenticated user's projection to the context.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated user from the context, or nil if the
// request is unauthenticated.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
