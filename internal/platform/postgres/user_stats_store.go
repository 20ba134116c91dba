package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// UserStatsStore implements store.UserStatsStore using PostgreSQL.
type UserStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStatsStore creates a new PostgreSQL implementation of the
// UserStatsStore interface. If logger is nil, a default logger is used.
func NewUserStatsStore(db store.DBTX, logger *slog.Logger) *UserStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_stats_store")),
	}
}

var _ store.UserStatsStore = (*UserStatsStore)(nil)

// WithTx implements store.UserStatsStore.WithTx.
func (s *UserStatsStore) WithTx(tx *sql.Tx) store.UserStatsStore {
	return &UserStatsStore{db: tx, logger: s.logger}
}

const userStatsColumns = `user_id, xp, level, current_streak, longest_streak,
	last_review_date, total_reviews, total_cards_learned, updated_at`

// Get implements store.UserStatsStore.Get.
func (s *UserStatsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	query := `SELECT ` + userStatsColumns + ` FROM user_stats WHERE user_id = $1`
	return s.scanStats(s.db.QueryRowContext(ctx, query, userID))
}

// GetForUpdate implements store.UserStatsStore.GetForUpdate.
func (s *UserStatsStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.UserStats, error) {
	query := `SELECT ` + userStatsColumns + ` FROM user_stats WHERE user_id = $1 FOR UPDATE`
	return s.scanStats(s.db.QueryRowContext(ctx, query, userID))
}

// Upsert implements store.UserStatsStore.Upsert.
func (s *UserStatsStore) Upsert(ctx context.Context, stats *domain.UserStats) error {
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO user_stats (user_id, xp, level, current_streak,
			longest_streak, last_review_date, total_reviews,
			total_cards_learned, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = EXCLUDED.xp,
			level = EXCLUDED.level,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_review_date = EXCLUDED.last_review_date,
			total_reviews = EXCLUDED.total_reviews,
			total_cards_learned = EXCLUDED.total_cards_learned,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		stats.UserID,
		stats.XP,
		stats.Level,
		stats.CurrentStreak,
		stats.LongestStreak,
		nullableTime(stats.LastReviewDate),
		stats.TotalReviews,
		stats.TotalCardsLearned,
		stats.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("user_stats", "upsert", "upsert failed", err)
	}

	return nil
}

func (s *UserStatsStore) scanStats(row *sql.Row) (*domain.UserStats, error) {
	var stats domain.UserStats
	var lastReview sql.NullTime

	err := row.Scan(
		&stats.UserID, &stats.XP, &stats.Level, &stats.CurrentStreak,
		&stats.LongestStreak, &lastReview, &stats.TotalReviews,
		&stats.TotalCardsLearned, &stats.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserStatsNotFound
		}
		return nil, store.NewStoreError("user_stats", "get", "query failed", err)
	}

	if lastReview.Valid {
		t := lastReview.Time
		stats.LastReviewDate = &t
	}

	return &stats, nil
}
