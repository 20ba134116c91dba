package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// ReviewLogStore implements store.ReviewLogStore using PostgreSQL.
// The review_logs table is append-only.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, a default logger is used.
func NewReviewLogStore(db store.DBTX, logger *slog.Logger) *ReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx.
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &ReviewLogStore{db: tx, logger: s.logger}
}

// Append implements store.ReviewLogStore.Append.
func (s *ReviewLogStore) Append(ctx context.Context, log *domain.ReviewLog) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_logs (id, user_id, card_id, deck_id, rating,
			ease_factor_before, ease_factor_after, interval_before,
			interval_after, duration_ms, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.CardID,
		log.DeckID,
		int(log.Rating),
		log.EaseFactorBefore,
		log.EaseFactorAfter,
		log.IntervalBefore,
		log.IntervalAfter,
		log.DurationMs,
		log.ReviewedAt,
	)
	if err != nil {
		return store.NewStoreError("review_log", "append", "insert failed", err)
	}

	return nil
}

// CountSince implements store.ReviewLogStore.CountSince.
func (s *ReviewLogStore) CountSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	query := `SELECT COUNT(*) FROM review_logs WHERE user_id = $1 AND reviewed_at >= $2`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, store.NewStoreError("review_log", "count_since", "query failed", err)
	}

	return count, nil
}
