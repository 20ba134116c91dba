package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// CreateMultiple saves multiple cards. Run it within a transaction via
	// WithTx and RunInTransaction when atomicity across cards matters, for
	// example when persisting a generated batch.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns all cards in a deck ordered by creation time.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// Delete removes a card. The schema cascades the delete to progress and
	// review log rows.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListForUser returns the user's own decks plus all preset decks,
	// ordered by creation time.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// Delete removes a deck and, through schema cascades, its cards.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeckStore
}
