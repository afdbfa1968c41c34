package userctx

import (
	"context"

	"github.com/nkarpov/authd/internal/models"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "accessToken"
)

// New returns a context carrying the authenticated user and the raw
// access token it was authenticated with (logout needs the raw value)
func New(ctx context.Context, u models.User, accessToken string) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, tokenKey, accessToken)
}

// User extracts the authenticated user from the context
func User(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// AccessToken extracts the raw bearer token from the context
func AccessToken(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}
