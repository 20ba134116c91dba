package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review log.
type ReviewLogStore interface {
	// Append inserts one immutable review log entry. Entries are never
	// updated or deleted.
	Append(ctx context.Context, log *domain.ReviewLog) error

	// CountSince returns how many reviews the user has logged at or after
	// the given time. Used for "reviews today" style stats.
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// WithTx returns a ReviewLogStore bound to the given transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
