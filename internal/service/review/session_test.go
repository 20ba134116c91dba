package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// fakeRater records RateCard calls and returns a fixed XP value per rating.
type fakeRater struct {
	calls []ratedCall
	err   error
}

type ratedCall struct {
	cardID uuid.UUID
	rating domain.Rating
}

func (f *fakeRater) RateCard(
	_ context.Context,
	_ uuid.UUID,
	card *domain.Card,
	rating domain.Rating,
	_ time.Duration,
) (*RatedCard, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.calls = append(f.calls, ratedCall{cardID: card.ID, rating: rating})
	return &RatedCard{XPEarned: 10 * int(rating)}, nil
}

func newTestSession(t *testing.T, rater CardRater, queueLen int) (*Session, []domain.CardWithProgress) {
	t.Helper()

	session := NewSession(uuid.New(), rater)
	queue := cards(t, queueLen, domain.CardStatusLearning)
	session.LoadQueue(queue)
	return session, queue
}

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("StartsIdle", func(t *testing.T) {
		t.Parallel()

		session := NewSession(uuid.New(), &fakeRater{})
		assert.Equal(t, SessionIdle, session.State())
		assert.False(t, session.IsSessionComplete())

		_, ok := session.GetCurrentCard()
		assert.False(t, ok)
	})

	t.Run("EmptyQueueIsImmediatelyComplete", func(t *testing.T) {
		t.Parallel()

		session := NewSession(uuid.New(), &fakeRater{})
		session.LoadQueue(nil)

		assert.Equal(t, SessionComplete, session.State())
		assert.True(t, session.IsSessionComplete())

		_, ok := session.GetCurrentCard()
		assert.False(t, ok)
	})

	t.Run("RatingEveryCardCompletesTheSession", func(t *testing.T) {
		t.Parallel()

		rater := &fakeRater{}
		session, queue := newTestSession(t, rater, 3)
		assert.Equal(t, SessionInProgress, session.State())

		for i := range queue {
			current, ok := session.GetCurrentCard()
			require.True(t, ok)
			assert.Equal(t, queue[i].Card.ID, current.Card.ID)

			require.NoError(t, session.Flip())
			_, err := session.Rate(ctx, domain.RatingGood)
			require.NoError(t, err)
		}

		assert.True(t, session.IsSessionComplete())
		require.Len(t, rater.calls, 3)
		for i, call := range rater.calls {
			assert.Equal(t, queue[i].Card.ID, call.cardID)
		}
	})

	t.Run("ResetReturnsToIdle", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 2)
		require.NoError(t, session.Flip())

		session.Reset()
		assert.Equal(t, SessionIdle, session.State())
		assert.False(t, session.IsFlipped())
		assert.Zero(t, session.Summary().TotalCards)
	})

	t.Run("LoadQueueDiscardsPreviousResults", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 1)
		require.NoError(t, session.Flip())
		_, err := session.Rate(ctx, domain.RatingGood)
		require.NoError(t, err)
		require.True(t, session.IsSessionComplete())

		session.LoadQueue(cards(t, 2, domain.CardStatusLearning))
		assert.Equal(t, SessionInProgress, session.State())
		assert.Zero(t, session.Summary().CardsReviewed)
	})
}

func TestSession_Flip(t *testing.T) {
	t.Parallel()

	t.Run("RevealsTheCurrentCard", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 1)
		assert.False(t, session.IsFlipped())
		require.NoError(t, session.Flip())
		assert.True(t, session.IsFlipped())
	})

	t.Run("TwiceIsRejected", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 1)
		require.NoError(t, session.Flip())
		assert.ErrorIs(t, session.Flip(), ErrAlreadyFlipped)
	})

	t.Run("BeforeLoadingIsRejected", func(t *testing.T) {
		t.Parallel()

		session := NewSession(uuid.New(), &fakeRater{})
		assert.ErrorIs(t, session.Flip(), ErrNoCurrentCard)
	})
}

func TestSession_Rate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("WithoutFlipIsRejected", func(t *testing.T) {
		t.Parallel()

		rater := &fakeRater{}
		session, _ := newTestSession(t, rater, 1)

		_, err := session.Rate(ctx, domain.RatingGood)
		assert.ErrorIs(t, err, ErrNotFlipped)
		assert.Empty(t, rater.calls)
	})

	t.Run("InvalidRatingIsRejected", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 1)
		require.NoError(t, session.Flip())

		_, err := session.Rate(ctx, domain.Rating(0))
		assert.ErrorIs(t, err, ErrInvalidRating)
		_, err = session.Rate(ctx, domain.Rating(5))
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("AfterCompletionIsRejected", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 1)
		require.NoError(t, session.Flip())
		_, err := session.Rate(ctx, domain.RatingGood)
		require.NoError(t, err)

		_, err = session.Rate(ctx, domain.RatingGood)
		assert.ErrorIs(t, err, ErrNoCurrentCard)
	})

	t.Run("UnflipsForTheNextCard", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 2)
		require.NoError(t, session.Flip())
		_, err := session.Rate(ctx, domain.RatingGood)
		require.NoError(t, err)

		assert.False(t, session.IsFlipped())
		_, err = session.Rate(ctx, domain.RatingGood)
		assert.ErrorIs(t, err, ErrNotFlipped)
	})

	t.Run("PersistenceFailureDoesNotAdvance", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("write failed")
		rater := &fakeRater{err: storeErr}
		session, queue := newTestSession(t, rater, 2)
		require.NoError(t, session.Flip())

		_, err := session.Rate(ctx, domain.RatingGood)
		require.ErrorIs(t, err, storeErr)

		// Still on the same card, still flipped, so the caller can retry.
		current, ok := session.GetCurrentCard()
		require.True(t, ok)
		assert.Equal(t, queue[0].Card.ID, current.Card.ID)
		assert.True(t, session.IsFlipped())
		assert.Zero(t, session.Summary().CardsReviewed)

		// The retry goes through once the store recovers.
		rater.err = nil
		xp, err := session.Rate(ctx, domain.RatingGood)
		require.NoError(t, err)
		assert.Equal(t, 30, xp)
	})

	t.Run("ReturnsXPForTheCard", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 1)
		require.NoError(t, session.Flip())

		xp, err := session.Rate(ctx, domain.RatingEasy)
		require.NoError(t, err)
		assert.Equal(t, 40, xp)
	})
}

func TestSession_Summary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("AggregatesOutcomes", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 4)

		ratings := []domain.Rating{
			domain.RatingGood,
			domain.RatingAgain,
			domain.RatingEasy,
			domain.RatingHard,
		}
		for _, r := range ratings {
			require.NoError(t, session.Flip())
			_, err := session.Rate(ctx, r)
			require.NoError(t, err)
		}

		summary := session.Summary()
		assert.Equal(t, 4, summary.TotalCards)
		assert.Equal(t, 4, summary.CardsReviewed)
		assert.Equal(t, 2, summary.CorrectCount) // Good and Easy
		assert.InDelta(t, 0.5, summary.Accuracy, 1e-9)
		assert.Equal(t, 10*3+10*1+10*4+10*2, summary.TotalXP)
	})

	t.Run("EmptySessionHasZeroAccuracy", func(t *testing.T) {
		t.Parallel()

		session := NewSession(uuid.New(), &fakeRater{})
		session.LoadQueue(nil)

		summary := session.Summary()
		assert.Zero(t, summary.CardsReviewed)
		assert.Zero(t, summary.Accuracy)
		assert.Zero(t, summary.AveragePerCard)
	})

	t.Run("TracksWallClockDuration", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &fakeRater{}, 2)

		// Drive the clock by hand: 3s on the first card, 5s on the second.
		base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
		current := base
		session.now = func() time.Time { return current }
		session.LoadQueue(cards(t, 2, domain.CardStatusLearning))

		current = base.Add(3 * time.Second)
		require.NoError(t, session.Flip())
		_, err := session.Rate(ctx, domain.RatingGood)
		require.NoError(t, err)

		current = base.Add(8 * time.Second)
		require.NoError(t, session.Flip())
		_, err = session.Rate(ctx, domain.RatingGood)
		require.NoError(t, err)

		summary := session.Summary()
		assert.Equal(t, 8*time.Second, summary.Duration)
		assert.Equal(t, 4*time.Second, summary.AveragePerCard)
	})
}
