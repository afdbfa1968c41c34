package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkarpov/authd/internal/apperrors"
	"github.com/nkarpov/authd/internal/repository"
	"github.com/nkarpov/authd/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper to run tests with its own UserRepo in transaction
	// When test ends rollback
	withRepo := func(t *testing.T, testFunc func(r *UserRepo)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			testFunc(&UserRepo{DB: tx})
		})
	}

	t.Run("create user ok", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			user, err := r.CreateUser(t.Context(), "alice@example.com", "hashedpassword123")

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID, "ID should be generated")
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "hashedpassword123", user.HashedPassword)
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create user duplicate email fails", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.CreateUser(t.Context(), "dup@example.com", "hashedpassword123")
			require.NoError(t, err)

			_, err = r.CreateUser(t.Context(), "dup@example.com", "anotherhashedpassword")

			assert.Error(t, err, "Should fail on duplicate email")
			assert.ErrorIs(t, err, apperrors.ErrEmailTaken, "if email exists must return well defined error")
		})
	})

	t.Run("get user by email", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), "bob@example.com", "hash")
			require.NoError(t, err)

			user, err := r.GetUserByEmail(t.Context(), "bob@example.com")

			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
		})
	})

	t.Run("get user by id", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), "carol@example.com", "hash")
			require.NoError(t, err)

			user, err := r.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, "carol@example.com", user.Email)
		})
	})

	t.Run("get missing user fails", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.GetUserByEmail(t.Context(), "nobody@example.com")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

			_, err = r.GetUserByID(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("update user", func(t *testing.T) {
		newEmail := "dave-new@example.com"
		newHash := "new-hash"

		tests := []struct {
			name          string
			params        repository.UpdateUserParams
			expectedEmail string
			expectedHash  string
		}{
			{
				name:          "email only",
				params:        repository.UpdateUserParams{Email: &newEmail},
				expectedEmail: newEmail,
				expectedHash:  "old-hash",
			},
			{
				name:          "password only",
				params:        repository.UpdateUserParams{HashedPassword: &newHash},
				expectedEmail: "dave@example.com",
				expectedHash:  newHash,
			},
			{
				name:          "both",
				params:        repository.UpdateUserParams{Email: &newEmail, HashedPassword: &newHash},
				expectedEmail: newEmail,
				expectedHash:  newHash,
			},
			{
				name:          "nothing keeps values",
				params:        repository.UpdateUserParams{},
				expectedEmail: "dave@example.com",
				expectedHash:  "old-hash",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				withRepo(t, func(r *UserRepo) {
					created, err := r.CreateUser(t.Context(), "dave@example.com", "old-hash")
					require.NoError(t, err)

					updated, err := r.UpdateUser(t.Context(), created.ID, tt.params)

					require.NoError(t, err)
					assert.Equal(t, tt.expectedEmail, updated.Email)
					assert.Equal(t, tt.expectedHash, updated.HashedPassword)
				})
			})
		}
	})

	t.Run("update to taken email fails", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			_, err := r.CreateUser(t.Context(), "taken@example.com", "hash")
			require.NoError(t, err)
			created, err := r.CreateUser(t.Context(), "mine@example.com", "hash")
			require.NoError(t, err)

			taken := "taken@example.com"
			_, err = r.UpdateUser(t.Context(), created.ID, repository.UpdateUserParams{Email: &taken})

			assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
		})
	})

	t.Run("update missing user fails", func(t *testing.T) {
		withRepo(t, func(r *UserRepo) {
			email := "ghost@example.com"
			_, err := r.UpdateUser(t.Context(), uuid.New(), repository.UpdateUserParams{Email: &email})

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
