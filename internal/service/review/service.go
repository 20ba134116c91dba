package review

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/domain/gamification"
	"github.com/dtd2x/vocabmaster/internal/domain/srs"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// RatedCard is the result of persisting one rated card.
type RatedCard struct {
	Progress *domain.CardProgress `json:"progress"`
	Outcome  *domain.ReviewLog    `json:"outcome"`
	XPEarned int                  `json:"xp_earned"`
	Streak   int                  `json:"streak"`
	Level    int                  `json:"level"`
}

// CardRater persists the outcome of rating a single card. Implemented by
// Service; the session state machine depends on this interface so tests can
// substitute an in-memory implementation.
type CardRater interface {
	RateCard(
		ctx context.Context,
		userID uuid.UUID,
		card *domain.Card,
		rating domain.Rating,
		duration time.Duration,
	) (*RatedCard, error)
}

// Service orchestrates the write side of a review: scheduling the next
// interval, appending the outcome log, and updating the user's stats, all in
// one transaction so a rated card is either fully recorded or not at all.
type Service struct {
	db        *sql.DB
	progress  store.ProgressStore
	logs      store.ReviewLogStore
	stats     store.UserStatsStore
	scheduler srs.Service
	loc       *time.Location
	logger    *slog.Logger
}

// NewService creates a review Service. The location drives calendar-day
// streak comparisons; nil means the server's local timezone.
func NewService(
	db *sql.DB,
	progress store.ProgressStore,
	logs store.ReviewLogStore,
	stats store.UserStatsStore,
	scheduler srs.Service,
	loc *time.Location,
	logger *slog.Logger,
) *Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if logs == nil {
		panic("review log store cannot be nil")
	}
	if stats == nil {
		panic("user stats store cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		db:        db,
		progress:  progress,
		logs:      logs,
		stats:     stats,
		scheduler: scheduler,
		loc:       loc,
		logger:    logger.With(slog.String("component", "review_service")),
	}
}

var _ CardRater = (*Service)(nil)

// RateCard applies a rating to one card: the scheduler computes the next
// progress state, an immutable outcome entry is appended, and the user's XP,
// level, streak, and counters are updated. Everything happens in a single
// transaction; on any failure nothing is persisted and the error is returned
// for the caller to retry or surface.
func (s *Service) RateCard(
	ctx context.Context,
	userID uuid.UUID,
	card *domain.Card,
	rating domain.Rating,
	duration time.Duration,
) (*RatedCard, error) {
	if card == nil {
		return nil, fmt.Errorf("%w: card cannot be nil", domain.ErrValidation)
	}
	if !rating.IsValid() {
		return nil, ErrInvalidRating
	}

	now := time.Now().UTC()

	var result *RatedCard
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progressTx := s.progress.WithTx(tx)
		logsTx := s.logs.WithTx(tx)
		statsTx := s.stats.WithTx(tx)

		current, err := progressTx.Get(ctx, userID, card.ID)
		if err != nil {
			return fmt.Errorf("loading card progress: %w", err)
		}
		before := *current

		updated, err := s.scheduler.Schedule(current, rating, now)
		if err != nil {
			return fmt.Errorf("scheduling next review: %w", err)
		}

		if err := progressTx.Update(ctx, updated); err != nil {
			return fmt.Errorf("updating card progress: %w", err)
		}

		outcome, err := domain.NewReviewLog(userID, card.ID, card.DeckID, rating, before, *updated, duration)
		if err != nil {
			return fmt.Errorf("building review log: %w", err)
		}
		if err := logsTx.Append(ctx, outcome); err != nil {
			return fmt.Errorf("appending review log: %w", err)
		}

		stats, err := s.updateStats(ctx, statsTx, userID, before, updated, rating, now)
		if err != nil {
			return err
		}

		result = &RatedCard{
			Progress: updated,
			Outcome:  outcome,
			XPEarned: stats.xpEarned,
			Streak:   stats.streak,
			Level:    stats.level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "rated card",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()),
		slog.String("rating", rating.String()),
		slog.Int("next_interval_days", result.Progress.Interval),
		slog.Int("xp_earned", result.XPEarned))

	return result, nil
}

type statsDelta struct {
	xpEarned int
	streak   int
	level    int
}

// updateStats locks the user's stats row, folds one rated card into it, and
// writes it back. The streak and last-review date only move on the first
// review of a calendar day; XP and the review counters move on every rating.
func (s *Service) updateStats(
	ctx context.Context,
	statsTx store.UserStatsStore,
	userID uuid.UUID,
	before domain.CardProgress,
	after *domain.CardProgress,
	rating domain.Rating,
	now time.Time,
) (*statsDelta, error) {
	stats, err := statsTx.GetForUpdate(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, fmt.Errorf("loading user stats: %w", err)
		}
		stats, err = domain.NewUserStats(userID)
		if err != nil {
			return nil, fmt.Errorf("creating user stats: %w", err)
		}
	}

	update := gamification.UpdateStreak(stats.LastReviewDate, stats.CurrentStreak, now, s.loc)
	xp := gamification.XPForRating(rating, update.Streak)

	stats.XP += xp
	stats.Level = gamification.LevelFromXP(stats.XP)
	stats.TotalReviews++
	if before.Status == domain.CardStatusNew && after.Status != domain.CardStatusNew {
		stats.TotalCardsLearned++
	}
	if update.IsNewDay {
		stats.CurrentStreak = update.Streak
		reviewDate := now
		stats.LastReviewDate = &reviewDate
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.UpdatedAt = now

	if err := statsTx.Upsert(ctx, stats); err != nil {
		return nil, fmt.Errorf("saving user stats: %w", err)
	}

	return &statsDelta{
		xpEarned: xp,
		streak:   update.Streak,
		level:    stats.Level,
	}, nil
}
