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

// DeckStore implements store.DeckStore using PostgreSQL.
type DeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDeckStore creates a new PostgreSQL implementation of the DeckStore
// interface. If logger is nil, a default logger is used.
func NewDeckStore(db store.DBTX, logger *slog.Logger) *DeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*DeckStore)(nil)

// WithTx implements store.DeckStore.WithTx.
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &DeckStore{db: tx, logger: s.logger}
}

const deckColumns = `id, user_id, name, description, language, is_preset, created_at, updated_at`

// Create implements store.DeckStore.Create.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO decks (id, user_id, name, description, language,
			is_preset, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.Language,
		deck.IsPreset, deck.CreatedAt, deck.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("deck", "create", "insert failed", err)
	}

	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID, &deck.UserID, &deck.Name, &deck.Description,
		&deck.Language, &deck.IsPreset, &deck.CreatedAt, &deck.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrDeckNotFound
		}
		return nil, store.NewStoreError("deck", "get_by_id", "query failed", err)
	}

	return &deck, nil
}

// ListForUser implements store.DeckStore.ListForUser.
func (s *DeckStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE user_id = $1 OR is_preset
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("deck", "list_for_user", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []*domain.Deck
	for rows.Next() {
		var deck domain.Deck
		err := rows.Scan(
			&deck.ID, &deck.UserID, &deck.Name, &deck.Description,
			&deck.Language, &deck.IsPreset, &deck.CreatedAt, &deck.UpdatedAt,
		)
		if err != nil {
			return nil, store.NewStoreError("deck", "list_for_user", "scan failed", err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("deck", "list_for_user", "iteration failed", err)
	}

	return decks, nil
}

// Delete implements store.DeckStore.Delete.
func (s *DeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("deck", "delete", "delete failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("deck", "delete", "rows affected unavailable", err)
	}
	if affected == 0 {
		return store.ErrDeckNotFound
	}

	return nil
}
