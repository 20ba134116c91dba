// Package deck implements deck and card management: CRUD, adopting a deck
// for study, and AI-assisted card generation.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/generation"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// ErrGenerationDisabled is returned when card generation is requested but no
// generator is configured (missing API key).
var ErrGenerationDisabled = errors.New("card generation is not configured")

// Service handles deck and card management for one user at a time.
type Service struct {
	decks     store.DeckStore
	cards     store.CardStore
	progress  store.ProgressStore
	generator generation.Generator // nil when generation is disabled
	logger    *slog.Logger
}

// NewService creates a deck Service. The generator may be nil, in which case
// GenerateCards returns ErrGenerationDisabled.
func NewService(
	decks store.DeckStore,
	cards store.CardStore,
	progress store.ProgressStore,
	generator generation.Generator,
	logger *slog.Logger,
) *Service {
	if decks == nil {
		panic("deck store cannot be nil")
	}
	if cards == nil {
		panic("card store cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		decks:     decks,
		cards:     cards,
		progress:  progress,
		generator: generator,
		logger:    logger.With(slog.String("component", "deck_service")),
	}
}

// CreateDeck creates a deck owned by the user.
func (s *Service) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	name, description, language string,
) (*domain.Deck, error) {
	deck, err := domain.NewDeck(userID, name, description, language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "created deck",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))

	return deck, nil
}

// GetDeck returns a deck the user may study: their own or a preset.
func (s *Service) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID && !deck.IsPreset {
		return nil, domain.ErrUnauthorized
	}
	return deck, nil
}

// ListDecks returns the user's decks plus the preset decks.
func (s *Service) ListDecks(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	return s.decks.ListForUser(ctx, userID)
}

// DeleteDeck removes one of the user's own decks. Preset decks and decks
// owned by others cannot be deleted.
func (s *Service) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if deck.UserID != userID || deck.IsPreset {
		return domain.ErrUnauthorized
	}
	return s.decks.Delete(ctx, deckID)
}

// ListCards returns every card in a deck the user may study.
func (s *Service) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.cards.ListByDeck(ctx, deckID)
}

// AddCard creates a single card in one of the user's own decks.
func (s *Service) AddCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	front, back, exampleSentence, pronunciation string,
) (*domain.Card, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	card, err := domain.NewCard(deckID, front, back)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	card.ExampleSentence = exampleSentence
	card.Pronunciation = pronunciation

	if err := s.cards.CreateMultiple(ctx, []*domain.Card{card}); err != nil {
		return nil, err
	}

	return card, nil
}

// DeleteCard removes a card from one of the user's own decks.
func (s *Service) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return err
	}

	deck, err := s.decks.GetByID(ctx, card.DeckID)
	if err != nil {
		return err
	}
	if deck.UserID != userID {
		return domain.ErrUnauthorized
	}

	return s.cards.Delete(ctx, cardID)
}

// AdoptDeck links the user to every card in the deck by creating missing
// progress rows in status "new". Safe to call repeatedly; returns how many
// rows were created this time.
func (s *Service) AdoptDeck(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return 0, err
	}

	created, err := s.progress.InitializeForDeck(ctx, userID, deckID)
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "adopted deck",
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("cards_initialized", created))

	return created, nil
}

// GenerateCards drafts cards with the configured LLM, stores them in one of
// the user's own decks, and returns them.
func (s *Service) GenerateCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	topic string,
	count int,
) ([]*domain.Card, error) {
	if s.generator == nil {
		return nil, ErrGenerationDisabled
	}

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	cards, err := s.generator.GenerateCards(ctx, generation.Request{
		DeckID:   deckID,
		Topic:    topic,
		Language: deck.Language,
		Count:    count,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cards.CreateMultiple(ctx, cards); err != nil {
		return nil, err
	}

	return cards, nil
}
