package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// UserStatsStore defines the interface for user gamification stats
// persistence.
type UserStatsStore interface {
	// Get retrieves the stats row for a user.
	// Returns ErrUserStatsNotFound if the row does not exist.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)

	// GetForUpdate retrieves the stats row with a row-level lock
	// (SELECT FOR UPDATE). Use within a transaction when the row will be
	// updated, to protect against concurrent modifications.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)

	// Upsert creates or replaces the stats row for the user identified by
	// the stats object.
	Upsert(ctx context.Context, stats *domain.UserStats) error

	// WithTx returns a UserStatsStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStatsStore
}
