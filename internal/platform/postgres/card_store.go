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

// CardStore implements store.CardStore using PostgreSQL.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface. If logger is nil, a default logger is used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

const cardColumns = `id, deck_id, front, back, example_sentence,
	pronunciation, audio_url, created_at, updated_at`

// CreateMultiple implements store.CardStore.CreateMultiple.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	query := `
		INSERT INTO cards (id, deck_id, front, back, example_sentence,
			pronunciation, audio_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		_, err := s.db.ExecContext(ctx, query,
			card.ID, card.DeckID, card.Front, card.Back,
			card.ExampleSentence, card.Pronunciation, card.AudioURL,
			card.CreatedAt, card.UpdatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return store.ErrDeckNotFound
			}
			return store.NewStoreError("card", "create_multiple", "insert failed", err)
		}
	}

	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.DeckID, &card.Front, &card.Back,
		&card.ExampleSentence, &card.Pronunciation, &card.AudioURL,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCardNotFound
		}
		return nil, store.NewStoreError("card", "get_by_id", "query failed", err)
	}

	return &card, nil
}

// ListByDeck implements store.CardStore.ListByDeck.
func (s *CardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, store.NewStoreError("card", "list_by_deck", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		err := rows.Scan(
			&card.ID, &card.DeckID, &card.Front, &card.Back,
			&card.ExampleSentence, &card.Pronunciation, &card.AudioURL,
			&card.CreatedAt, &card.UpdatedAt,
		)
		if err != nil {
			return nil, store.NewStoreError("card", "list_by_deck", "scan failed", err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list_by_deck", "iteration failed", err)
	}

	return cards, nil
}

// Delete implements store.CardStore.Delete.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("card", "delete", "delete failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("card", "delete", "rows affected unavailable", err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}
