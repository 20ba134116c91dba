// Package generation defines the boundary between the application core and
// external LLM services used to draft vocabulary cards. The core depends on
// the Generator interface only; the Gemini-backed implementation lives in
// internal/platform/gemini.
package generation

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// Request describes the vocabulary cards to generate for one deck.
type Request struct {
	// DeckID is the deck the generated cards will belong to.
	DeckID uuid.UUID

	// Topic is the theme the words should cluster around, e.g. "ordering
	// food in a restaurant".
	Topic string

	// Language is the language being learned.
	Language string

	// Count is how many cards to generate.
	Count int
}

// Generator defines the interface for generating vocabulary flashcards.
type Generator interface {
	// GenerateCards drafts cards for the requested topic and language.
	// The returned cards are validated domain objects carrying the request's
	// deck ID, but they are not persisted.
	GenerateCards(ctx context.Context, req Request) ([]*domain.Card, error)
}
