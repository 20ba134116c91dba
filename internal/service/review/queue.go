// Package review implements the study loop: building the interleaved queue
// of due and new cards, the per-session state machine, and the orchestration
// that persists each rated card's scheduling, log, and stats updates.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// Default queue limits, used when the configured values are not positive.
const (
	DefaultNewCardLimit = 20
	DefaultReviewLimit  = 100
)

// QueueBuilder assembles the ordered card list for one study session.
// Due cards come first in due order; new cards are spliced in at a roughly
// even spacing so they do not cluster at the end of the session.
type QueueBuilder struct {
	progress     store.ProgressStore
	newCardLimit int
	reviewLimit  int
	logger       *slog.Logger
}

// NewQueueBuilder creates a QueueBuilder backed by the given progress store.
// Non-positive limits fall back to the defaults.
func NewQueueBuilder(
	progress store.ProgressStore,
	newCardLimit int,
	reviewLimit int,
	logger *slog.Logger,
) *QueueBuilder {
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if newCardLimit <= 0 {
		newCardLimit = DefaultNewCardLimit
	}
	if reviewLimit <= 0 {
		reviewLimit = DefaultReviewLimit
	}

	return &QueueBuilder{
		progress:     progress,
		newCardLimit: newCardLimit,
		reviewLimit:  reviewLimit,
		logger:       logger.With(slog.String("component", "queue_builder")),
	}
}

// Build fetches the user's due and new cards and returns them as one
// interleaved queue. A nil deckID means all decks. The two fetches are
// independent reads and run concurrently; the result is built fresh on every
// call, so a second call reflects the current due state.
func (b *QueueBuilder) Build(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	now time.Time,
) ([]domain.CardWithProgress, error) {
	var due, fresh []domain.CardWithProgress

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		due, err = b.progress.FetchDue(gctx, userID, deckID, now, b.reviewLimit)
		if err != nil {
			return fmt.Errorf("fetching due cards: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		fresh, err = b.progress.FetchNew(gctx, userID, deckID, b.newCardLimit)
		if err != nil {
			return fmt.Errorf("fetching new cards: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	queue := interleave(due, fresh)

	b.logger.DebugContext(ctx, "built review queue",
		slog.String("user_id", userID.String()),
		slog.Int("due_cards", len(due)),
		slog.Int("new_cards", len(fresh)),
		slog.Int("queue_length", len(queue)))

	return queue, nil
}

// interleave distributes the new cards evenly through the review cards.
// With r review cards and n new cards, one new card is spliced in after every
// ceil(r/n)-th review card; new cards left over once the review list is
// exhausted go at the end. Either list empty returns the other unchanged.
func interleave(review, fresh []domain.CardWithProgress) []domain.CardWithProgress {
	if len(fresh) == 0 {
		return review
	}
	if len(review) == 0 {
		return fresh
	}

	ratio := (len(review) + len(fresh) - 1) / len(fresh)

	queue := make([]domain.CardWithProgress, 0, len(review)+len(fresh))
	next := 0
	for i, card := range review {
		queue = append(queue, card)
		if (i+1)%ratio == 0 && next < len(fresh) {
			queue = append(queue, fresh[next])
			next++
		}
	}
	queue = append(queue, fresh[next:]...)

	return queue
}
