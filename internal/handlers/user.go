package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkarpov/authd/internal/apperrors"
	"github.com/nkarpov/authd/internal/handlers/render"
	"github.com/nkarpov/authd/internal/handlers/userctx"
	"github.com/nkarpov/authd/internal/logger"
	"github.com/nkarpov/authd/internal/service/auth"
)

func handleUserUpdate(as authService, logger logger.Logger) http.Handler {
	type request struct {
		Email    *string `json:"email" validate:"omitempty,email"`
		Password *string `json:"password" validate:"omitempty,min=8"`
	}
	type response struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.User(r.Context())

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		updated, err := as.UpdateUser(r.Context(), user.ID, auth.UpdateUserPatch{
			Email:    data.Email,
			Password: data.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrEmailTaken):
				render.ServiceError(w, "Email already registered", http.StatusConflict)
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "User not found", http.StatusNotFound)
			default:
				logger.Error("user update failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{ID: updated.ID, Email: updated.Email})
	})
}

func handleUserHistory(as authService, logger logger.Logger) http.Handler {
	type row struct {
		ID        int64     `json:"id"`
		UserID    uuid.UUID `json:"user_id"`
		UserAgent string    `json:"user_agent"`
		LoginTime time.Time `json:"login_time"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.User(r.Context())

		entries, err := as.History(r.Context(), user.ID)
		if err != nil {
			logger.Error("history listing failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		rows := make([]row, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, row{
				ID:        e.ID,
				UserID:    e.UserID,
				UserAgent: e.UserAgent,
				LoginTime: e.LoginTime,
			})
		}

		render.JSON(w, rows)
	})
}
