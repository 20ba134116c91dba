package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review log validation errors
var (
	// ErrLogUserIDEmpty is returned when a review log's user ID is empty.
	ErrLogUserIDEmpty = errors.New("review log user ID cannot be empty")

	// ErrLogCardIDEmpty is returned when a review log's card ID is empty.
	ErrLogCardIDEmpty = errors.New("review log card ID cannot be empty")

	// ErrLogNegativeDuration is returned when a review duration is negative.
	ErrLogNegativeDuration = errors.New("review duration cannot be negative")
)

// ReviewLog is an immutable record of a single answered card. One is appended
// per rating and never updated afterwards; the log exists for analytics and
// session summaries, while CardProgress remains authoritative for scheduling.
type ReviewLog struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	CardID           uuid.UUID `json:"card_id"`
	DeckID           uuid.UUID `json:"deck_id"`
	Rating           Rating    `json:"rating"`
	EaseFactorBefore float64   `json:"ease_factor_before"`
	EaseFactorAfter  float64   `json:"ease_factor_after"`
	IntervalBefore   int       `json:"interval_before"`
	IntervalAfter    int       `json:"interval_after"`
	DurationMs       int64     `json:"duration_ms"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}

// NewReviewLog creates an immutable review log entry for a rated card.
// Returns an error if validation fails.
func NewReviewLog(
	userID, cardID, deckID uuid.UUID,
	rating Rating,
	before, after CardProgress,
	duration time.Duration,
) (*ReviewLog, error) {
	log := &ReviewLog{
		ID:               uuid.New(),
		UserID:           userID,
		CardID:           cardID,
		DeckID:           deckID,
		Rating:           rating,
		EaseFactorBefore: before.EaseFactor,
		EaseFactorAfter:  after.EaseFactor,
		IntervalBefore:   before.Interval,
		IntervalAfter:    after.Interval,
		DurationMs:       duration.Milliseconds(),
		ReviewedAt:       time.Now().UTC(),
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.UserID == uuid.Nil {
		return ErrLogUserIDEmpty
	}

	if l.CardID == uuid.Nil {
		return ErrLogCardIDEmpty
	}

	if !l.Rating.IsValid() {
		return ErrInvalidRating
	}

	if l.DurationMs < 0 {
		return ErrLogNegativeDuration
	}

	return nil
}
