package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// DueCount is one day of the review forecast.
type DueCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ProgressStore defines the interface for per-user card progress persistence.
type ProgressStore interface {
	// FetchDue returns up to limit cards that are due for review: progress
	// with status other than "new" and NextReviewAt at or before now,
	// ordered by NextReviewAt ascending with card ID as a deterministic
	// tie-breaker. A nil deckID means all of the user's decks.
	FetchDue(
		ctx context.Context,
		userID uuid.UUID,
		deckID *uuid.UUID,
		now time.Time,
		limit int,
	) ([]domain.CardWithProgress, error)

	// FetchNew returns up to limit unstudied cards (status "new"), ordered
	// by card creation time ascending so the oldest additions surface first.
	// A nil deckID means all of the user's decks.
	FetchNew(
		ctx context.Context,
		userID uuid.UUID,
		deckID *uuid.UUID,
		limit int,
	) ([]domain.CardWithProgress, error)

	// Get retrieves the progress row for one user and card.
	// Returns ErrProgressNotFound if it does not exist.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardProgress, error)

	// Update upserts a single progress row. The row is identified by the
	// (UserID, CardID) pair in the progress object.
	Update(ctx context.Context, progress *domain.CardProgress) error

	// InitializeForDeck creates "new"-status progress rows for every card in
	// the deck that does not yet have one for this user, and returns how
	// many were created. Idempotent: calling it repeatedly never duplicates
	// rows.
	InitializeForDeck(ctx context.Context, userID, deckID uuid.UUID) (int, error)

	// CountByStatus returns the number of the user's progress rows per
	// status, optionally restricted to one deck.
	CountByStatus(
		ctx context.Context,
		userID uuid.UUID,
		deckID *uuid.UUID,
	) (map[domain.CardStatus]int, error)

	// DueForecast returns, for each of the next days calendar days starting
	// at now's day, how many cards come due.
	DueForecast(ctx context.Context, userID uuid.UUID, now time.Time, days int) ([]DueCount, error)

	// WithTx returns a ProgressStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
