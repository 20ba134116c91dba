package api

import (
	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/domain"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateDeckRequest is the payload for creating a deck.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Language    string `json:"language"    validate:"required,max=50"`
}

// AddCardRequest is the payload for adding a card to a deck.
type AddCardRequest struct {
	Front           string `json:"front"            validate:"required,max=500"`
	Back            string `json:"back"             validate:"required,max=500"`
	ExampleSentence string `json:"example_sentence" validate:"max=1000"`
	Pronunciation   string `json:"pronunciation"    validate:"max=200"`
}

// GenerateCardsRequest is the payload for AI-assisted card generation.
type GenerateCardsRequest struct {
	Topic string `json:"topic" validate:"required,max=200"`
	Count int    `json:"count" validate:"gte=0,lte=50"`
}

// AdoptDeckResponse reports how many cards were linked to the user.
type AdoptDeckResponse struct {
	CardsInitialized int `json:"cards_initialized"`
}

// QueueResponse is the review queue for one session.
type QueueResponse struct {
	Cards []domain.CardWithProgress `json:"cards"`
	Total int                       `json:"total"`
}

// RateCardRequest is the payload for rating one reviewed card.
type RateCardRequest struct {
	CardID     uuid.UUID `json:"card_id"     validate:"required"`
	Rating     int       `json:"rating"      validate:"required,min=1,max=4"`
	DurationMs int64     `json:"duration_ms" validate:"gte=0"`
}

// RateCardResponse reports the result of rating one card.
type RateCardResponse struct {
	Progress *domain.CardProgress `json:"progress"`
	XPEarned int                  `json:"xp_earned"`
	Streak   int                  `json:"streak"`
	Level    int                  `json:"level"`
}
