package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nkarpov/authd/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return apperrors.ErrEmailTaken
	CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Update email or password hash (nil means keep as is)
	// If new email collides with another user must return apperrors.ErrEmailTaken
	UpdateUser(ctx context.Context, userID uuid.UUID, params UpdateUserParams) (models.User, error)
}

type UpdateUserParams struct {
	Email          *string
	HashedPassword *string
}

// Login history repository interface
// Append only: no update or delete methods on purpose
type LoginHistoryRepo interface {
	// Append login event for user
	Add(ctx context.Context, userID uuid.UUID, userAgent string) (models.LoginHistory, error)

	// List all login events for user in insertion order
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginHistory, error)
}

// Storage aggregates all repositories over a single db handle
type Storage interface {
	User() UserRepo
	History() LoginHistoryRepo

	// Run fn inside a db transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
