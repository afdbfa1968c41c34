package models

import (
	"time"

	"github.com/google/uuid"
)

// Single login event
// Append only: rows are never updated or deleted
type LoginHistory struct {
	ID        int64
	UserID    uuid.UUID
	UserAgent string
	LoginTime time.Time
}
