package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkarpov/authd/internal/models"
)

type LoginHistoryRepo struct {
	DB DBTX
}

const addLoginHistory = `-- name: AddLoginHistory
INSERT INTO login_history (user_id, user_agent)
VALUES ($1, $2)
RETURNING id, user_id, user_agent, login_time
`

func (r *LoginHistoryRepo) Add(ctx context.Context, userID uuid.UUID, userAgent string) (models.LoginHistory, error) {
	rows, _ := r.DB.Query(ctx, addLoginHistory, userID, userAgent)
	entry, err := pgx.CollectOneRow(rows, rowToLoginHistory)
	if err != nil {
		return entry, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

const listLoginHistory = `-- name: ListLoginHistory
SELECT id, user_id, user_agent, login_time FROM login_history
WHERE user_id = $1
ORDER BY id
`

// List login events in insertion order (oldest first)
func (r *LoginHistoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginHistory, error) {
	rows, _ := r.DB.Query(ctx, listLoginHistory, userID)
	entries, err := pgx.CollectRows(rows, rowToLoginHistory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func rowToLoginHistory(row pgx.CollectableRow) (models.LoginHistory, error) {
	var h models.LoginHistory
	err := row.Scan(&h.ID, &h.UserID, &h.UserAgent, &h.LoginTime)
	return h, err
}
