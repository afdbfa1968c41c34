package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkarpov/authd/internal/handlers/middleware"
	"github.com/nkarpov/authd/internal/logger"
	"github.com/nkarpov/authd/internal/models"
	"github.com/nkarpov/authd/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(authService authService, logger logger.Logger) http.Handler {
	authMiddleware := middleware.Auth(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	mux := http.NewServeMux()

	mux.Handle("POST /register", handleRegister(authService, logger))
	mux.Handle("POST /login", handleLogin(authService, logger))
	mux.Handle("POST /refresh", handleRefresh(authService, logger))

	mux.Handle("PUT /user/update", withAuth(handleUserUpdate(authService, logger)))
	mux.Handle("GET /user/history", withAuth(handleUserHistory(authService, logger)))
	mux.Handle("POST /logout", withAuth(handleLogout(authService, logger)))

	return chain(mux,
		middleware.LoggerMiddleware(logger),
	)
}

type authService interface {
	// Register user with email and password
	// Has to return apperrors.ErrEmailTaken if email is registered already
	Register(ctx context.Context, email string, password string) (models.User, error)

	// Login user with email and password
	// Has to return apperrors.ErrInvalidCredentials on unknown email and
	// wrong password alike
	Login(ctx context.Context, email string, password string, userAgent string) (models.TokenPair, error)

	// Issue new access token using refresh token
	// Has to return apperrors.ErrInvalidToken on any decode failure
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Decode access token, check denylist and resolve user
	Authenticate(ctx context.Context, access string) (models.User, error)

	// Put access token on the denylist for its remaining validity
	Logout(ctx context.Context, access string) error

	// Change email and/or password
	UpdateUser(ctx context.Context, userID uuid.UUID, patch auth.UpdateUserPatch) (models.User, error)

	// Login events for user in insertion order
	History(ctx context.Context, userID uuid.UUID) ([]models.LoginHistory, error)
}
