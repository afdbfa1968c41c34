package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkarpov/authd/internal/apperrors"
	"github.com/nkarpov/authd/internal/handlers/middleware"
	"github.com/nkarpov/authd/internal/handlers/render"
	"github.com/nkarpov/authd/internal/handlers/userctx"
	"github.com/nkarpov/authd/internal/logger"
)

func handleRegister(as authService, logger logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	type response struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := as.Register(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrEmailTaken):
				render.ServiceError(w, "Email already registered", http.StatusConflict)
			default:
				logger.Error("register failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{ID: user.ID, Email: user.Email})
	})
}

func handleLogin(as authService, logger logger.Logger) http.Handler {
	type response struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Credentials come as a form, OAuth2 password flow style
		if err := r.ParseForm(); err != nil {
			render.ServiceError(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if email == "" || password == "" {
			render.ServiceError(w, "Username and password are required", http.StatusBadRequest)
			return
		}

		pair, err := as.Login(r.Context(), email, password, r.UserAgent())
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				// Same shape whether the email exists or not
				render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
			default:
				logger.Error("login failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
			TokenType:    "bearer",
		})
	})
}

func handleRefresh(as authService, logger logger.Logger) http.Handler {
	type response struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := middleware.BearerToken(r)
		if err != nil {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		access, err := as.Refresh(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidToken):
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			default:
				logger.Error("refresh failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{AccessToken: access.Value, TokenType: "bearer"})
	})
}

func handleLogout(as authService, logger logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Auth middleware has validated the token already
		token, ok := userctx.AccessToken(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := as.Logout(r.Context(), token); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrStoreUnavailable):
				logger.Error("logout failed, revocation store unreachable", "error", err.Error())
				render.ServiceError(w, "Service unavailable", http.StatusServiceUnavailable)
			case errors.Is(err, apperrors.ErrInvalidToken):
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			default:
				logger.Error("logout failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Logged out successfully"})
	})
}
