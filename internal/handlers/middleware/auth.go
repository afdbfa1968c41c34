package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nkarpov/authd/internal/apperrors"
	"github.com/nkarpov/authd/internal/handlers/render"
	"github.com/nkarpov/authd/internal/handlers/userctx"
	"github.com/nkarpov/authd/internal/models"
)

type authService interface {
	// Decode access token, check denylist, resolve user
	Authenticate(ctx context.Context, access string) (models.User, error)
}

// BearerToken extracts the token from the Authorization header
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperrors.ErrInvalidToken
	}

	return token, nil
}

// Auth is the single authorization gate: every protected route goes
// through here, none re-implements token decoding on its own
func Auth(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := as.Authenticate(r.Context(), token)
			if err != nil {
				// Keep the message generic: which check failed is for logs only
				switch {
				case errors.Is(err, apperrors.ErrStoreUnavailable):
					render.ServiceError(w, "Service unavailable", http.StatusServiceUnavailable)
				default:
					render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				}
				return
			}

			ctx := userctx.New(r.Context(), user, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
