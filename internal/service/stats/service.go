// Package stats assembles the read-side numbers the app shows on its
// dashboard: level progress, streak health, card counts, and the due
// forecast.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/domain/gamification"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// Overview is the dashboard aggregate for one user.
type Overview struct {
	Level             gamification.LevelInfo    `json:"level"`
	CurrentStreak     int                       `json:"current_streak"`
	LongestStreak     int                       `json:"longest_streak"`
	StreakExpiresIn   int                       `json:"streak_expires_in_days"`
	TotalReviews      int                       `json:"total_reviews"`
	TotalCardsLearned int                       `json:"total_cards_learned"`
	ReviewsToday      int                       `json:"reviews_today"`
	CardCounts        map[domain.CardStatus]int `json:"card_counts"`
}

// Service reads and aggregates user statistics.
type Service struct {
	stats    store.UserStatsStore
	progress store.ProgressStore
	logs     store.ReviewLogStore
	loc      *time.Location
	logger   *slog.Logger
}

// NewService creates a stats Service. The location decides where the
// calendar day boundary falls for "today" figures; nil means server local.
func NewService(
	stats store.UserStatsStore,
	progress store.ProgressStore,
	logs store.ReviewLogStore,
	loc *time.Location,
	logger *slog.Logger,
) *Service {
	if stats == nil {
		panic("user stats store cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if logs == nil {
		panic("review log store cannot be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		stats:    stats,
		progress: progress,
		logs:     logs,
		loc:      loc,
		logger:   logger.With(slog.String("component", "stats_service")),
	}
}

// Overview builds the dashboard aggregate. A user with no stats row yet gets
// zeroed values at level 1 rather than an error.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	now := time.Now().UTC()

	userStats, err := s.stats.Get(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, err
		}
		userStats, err = domain.NewUserStats(userID)
		if err != nil {
			return nil, err
		}
	}

	counts, err := s.progress.CountByStatus(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	reviewsToday, err := s.logs.CountSince(ctx, userID, startOfDay(now, s.loc))
	if err != nil {
		return nil, err
	}

	return &Overview{
		Level:             gamification.LevelProgress(userStats.XP),
		CurrentStreak:     userStats.CurrentStreak,
		LongestStreak:     userStats.LongestStreak,
		StreakExpiresIn:   gamification.StreakExpiresIn(userStats.LastReviewDate, now, s.loc),
		TotalReviews:      userStats.TotalReviews,
		TotalCardsLearned: userStats.TotalCardsLearned,
		ReviewsToday:      reviewsToday,
		CardCounts:        counts,
	}, nil
}

// Forecast returns how many cards come due on each of the next days calendar
// days, with anything overdue folded into day zero.
func (s *Service) Forecast(ctx context.Context, userID uuid.UUID, days int) ([]store.DueCount, error) {
	if days <= 0 {
		days = 7
	}
	return s.progress.DueForecast(ctx, userID, time.Now().UTC(), days)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
