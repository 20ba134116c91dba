package review

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// fakeStatsStore keeps a single stats row in memory.
type fakeStatsStore struct {
	stats *domain.UserStats
	saved *domain.UserStats
}

func (f *fakeStatsStore) Get(context.Context, uuid.UUID) (*domain.UserStats, error) {
	return f.getLocked()
}

func (f *fakeStatsStore) GetForUpdate(context.Context, uuid.UUID) (*domain.UserStats, error) {
	return f.getLocked()
}

func (f *fakeStatsStore) getLocked() (*domain.UserStats, error) {
	if f.stats == nil {
		return nil, store.ErrUserStatsNotFound
	}
	copied := *f.stats
	return &copied, nil
}

func (f *fakeStatsStore) Upsert(_ context.Context, stats *domain.UserStats) error {
	copied := *stats
	f.saved = &copied
	return nil
}

func (f *fakeStatsStore) WithTx(*sql.Tx) store.UserStatsStore { return f }

func statsService(t *testing.T) *Service {
	t.Helper()
	return &Service{loc: time.UTC, logger: slog.Default()}
}

func learningProgress(status domain.CardStatus) domain.CardProgress {
	return domain.CardProgress{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		EaseFactor:  2.5,
		Interval:    6,
		Repetitions: 2,
		Status:      status,
	}
}

func TestService_UpdateStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	before := learningProgress(domain.CardStatusLearning)
	after := learningProgress(domain.CardStatusLearning)

	t.Run("FirstReviewEverCreatesStats", func(t *testing.T) {
		t.Parallel()

		statsStore := &fakeStatsStore{}
		svc := statsService(t)

		delta, err := svc.updateStats(ctx, statsStore, userID, before, &after, domain.RatingGood, now)
		require.NoError(t, err)

		// Streak 1 on day one: 10 base XP * 1.1 multiplier = 11.
		assert.Equal(t, 1, delta.streak)
		assert.Equal(t, 11, delta.xpEarned)

		require.NotNil(t, statsStore.saved)
		saved := statsStore.saved
		assert.Equal(t, 11, saved.XP)
		assert.Equal(t, 1, saved.Level)
		assert.Equal(t, 1, saved.CurrentStreak)
		assert.Equal(t, 1, saved.LongestStreak)
		assert.Equal(t, 1, saved.TotalReviews)
		require.NotNil(t, saved.LastReviewDate)
		assert.True(t, saved.LastReviewDate.Equal(now))
	})

	t.Run("SameDayReviewDoesNotTouchStreak", func(t *testing.T) {
		t.Parallel()

		morning := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
		statsStore := &fakeStatsStore{stats: &domain.UserStats{
			UserID:         userID,
			XP:             100,
			Level:          2,
			CurrentStreak:  4,
			LongestStreak:  4,
			LastReviewDate: &morning,
			TotalReviews:   20,
		}}
		svc := statsService(t)

		delta, err := svc.updateStats(ctx, statsStore, userID, before, &after, domain.RatingGood, now)
		require.NoError(t, err)

		// Streak 4 multiplier: 10 * 1.4 = 14.
		assert.Equal(t, 4, delta.streak)
		assert.Equal(t, 14, delta.xpEarned)

		saved := statsStore.saved
		assert.Equal(t, 4, saved.CurrentStreak)
		assert.Equal(t, 21, saved.TotalReviews)
		assert.True(t, saved.LastReviewDate.Equal(morning), "same-day review must not move the review date")
	})

	t.Run("NextDayReviewExtendsStreak", func(t *testing.T) {
		t.Parallel()

		yesterday := time.Date(2026, 8, 29, 22, 0, 0, 0, time.UTC)
		statsStore := &fakeStatsStore{stats: &domain.UserStats{
			UserID:         userID,
			CurrentStreak:  4,
			LongestStreak:  4,
			LastReviewDate: &yesterday,
		}}
		svc := statsService(t)

		delta, err := svc.updateStats(ctx, statsStore, userID, before, &after, domain.RatingGood, now)
		require.NoError(t, err)

		assert.Equal(t, 5, delta.streak)
		saved := statsStore.saved
		assert.Equal(t, 5, saved.CurrentStreak)
		assert.Equal(t, 5, saved.LongestStreak)
		assert.True(t, saved.LastReviewDate.Equal(now))
	})

	t.Run("MissedDayResetsStreakButKeepsLongest", func(t *testing.T) {
		t.Parallel()

		lastWeek := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
		statsStore := &fakeStatsStore{stats: &domain.UserStats{
			UserID:         userID,
			CurrentStreak:  9,
			LongestStreak:  9,
			LastReviewDate: &lastWeek,
		}}
		svc := statsService(t)

		delta, err := svc.updateStats(ctx, statsStore, userID, before, &after, domain.RatingGood, now)
		require.NoError(t, err)

		assert.Equal(t, 1, delta.streak)
		saved := statsStore.saved
		assert.Equal(t, 1, saved.CurrentStreak)
		assert.Equal(t, 9, saved.LongestStreak)
	})

	t.Run("LeavingNewStatusCountsAsLearned", func(t *testing.T) {
		t.Parallel()

		statsStore := &fakeStatsStore{stats: &domain.UserStats{UserID: userID}}
		svc := statsService(t)

		wasNew := learningProgress(domain.CardStatusNew)
		nowLearning := learningProgress(domain.CardStatusLearning)

		_, err := svc.updateStats(ctx, statsStore, userID, wasNew, &nowLearning, domain.RatingGood, now)
		require.NoError(t, err)
		assert.Equal(t, 1, statsStore.saved.TotalCardsLearned)
	})

	t.Run("AgainOnNewCardDoesNotCountAsLearned", func(t *testing.T) {
		t.Parallel()

		statsStore := &fakeStatsStore{stats: &domain.UserStats{UserID: userID}}
		svc := statsService(t)

		// An Again rating leaves repetitions at 0, so the card stays new.
		wasNew := learningProgress(domain.CardStatusNew)
		stillNew := learningProgress(domain.CardStatusNew)

		_, err := svc.updateStats(ctx, statsStore, userID, wasNew, &stillNew, domain.RatingAgain, now)
		require.NoError(t, err)
		assert.Zero(t, statsStore.saved.TotalCardsLearned)
	})

	t.Run("LevelRecomputedFromTotalXP", func(t *testing.T) {
		t.Parallel()

		// 95 XP + a Good at streak 0 (10 XP) crosses the 100 XP level-2 line.
		statsStore := &fakeStatsStore{stats: &domain.UserStats{
			UserID: userID,
			XP:     95,
			Level:  1,
		}}
		svc := statsService(t)

		delta, err := svc.updateStats(ctx, statsStore, userID, before, &after, domain.RatingGood, now)
		require.NoError(t, err)

		// First review ever for streak purposes: streak 1, 10 * 1.1 = 11.
		assert.Equal(t, 11, delta.xpEarned)
		assert.Equal(t, 106, statsStore.saved.XP)
		assert.Equal(t, 2, statsStore.saved.Level)
		assert.Equal(t, 2, delta.level)
	})
}

func TestService_RateCard_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := statsService(t)
	card := &domain.Card{ID: uuid.New(), DeckID: uuid.New()}

	_, err := svc.RateCard(ctx, uuid.New(), nil, domain.RatingGood, time.Second)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RateCard(ctx, uuid.New(), card, domain.Rating(0), time.Second)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.RateCard(ctx, uuid.New(), card, domain.Rating(9), time.Second)
	assert.ErrorIs(t, err, ErrInvalidRating)
}
