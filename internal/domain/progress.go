package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rating is the user's self-assessment of a card review on the 1-4 scale
// presented by the UI.
type Rating int

// Possible rating values, from complete failure to effortless recall.
const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// IsValid reports whether the rating is within the 1-4 scale.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// IsCorrect reports whether the rating counts as a pass for accuracy purposes.
// Good and Easy are passes; Again and Hard are not.
func (r Rating) IsCorrect() bool {
	return r >= RatingGood
}

// String returns the lowercase name of the rating.
func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// CardStatus classifies a card's position in the learning pipeline.
type CardStatus string

// Possible card status values.
const (
	CardStatusNew       CardStatus = "new"
	CardStatusLearning  CardStatus = "learning"
	CardStatusReview    CardStatus = "review"
	CardStatusGraduated CardStatus = "graduated"
)

// Status thresholds in days. A card graduates once its interval reaches
// graduatedIntervalDays.
const (
	learningIntervalDays  = 21
	graduatedIntervalDays = 90
)

// IsValid reports whether the status is one of the recognized values.
func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusNew, CardStatusLearning, CardStatusReview, CardStatusGraduated:
		return true
	default:
		return false
	}
}

// DeriveStatus classifies a card from its repetition count and interval.
//
// A card with zero repetitions is always "new" - including a previously
// studied card that was just demoted by an Again rating. Such a card is
// picked up by the new-card fetch path on the next session rather than the
// due fetch path. This mirrors the behavior users expect from the original
// product and is deliberate.
func DeriveStatus(repetitions, interval int) CardStatus {
	switch {
	case repetitions == 0:
		return CardStatusNew
	case interval < learningIntervalDays:
		return CardStatusLearning
	case interval < graduatedIntervalDays:
		return CardStatusReview
	default:
		return CardStatusGraduated
	}
}

// Progress validation errors
var (
	// ErrProgressUserIDEmpty is returned when a progress row's user ID is empty.
	ErrProgressUserIDEmpty = errors.New("card progress user ID cannot be empty")

	// ErrProgressCardIDEmpty is returned when a progress row's card ID is empty.
	ErrProgressCardIDEmpty = errors.New("card progress card ID cannot be empty")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when an ease factor is at or below 1.0.
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")

	// ErrInvalidRepetitions is returned when a repetition count is negative.
	ErrInvalidRepetitions = errors.New("repetitions must be greater than or equal to 0")
)

// DefaultEaseFactor is the starting ease factor for a freshly adopted card.
const DefaultEaseFactor = 2.5

// CardProgress tracks one user's spaced-repetition state for one card.
// The scheduler in the srs package computes the next state from this one;
// this type never mutates itself.
type CardProgress struct {
	UserID         uuid.UUID  `json:"user_id"`
	CardID         uuid.UUID  `json:"card_id"`
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval"`    // Current interval in days
	Repetitions    int        `json:"repetitions"` // Consecutive passes; reset by Again
	Status         CardStatus `json:"status"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCardProgress creates progress for a user and card with default values.
// The card starts in status "new" and is available for review immediately.
func NewCardProgress(userID, cardID uuid.UUID) (*CardProgress, error) {
	now := time.Now().UTC()
	progress := &CardProgress{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   DefaultEaseFactor,
		Interval:     0,
		Repetitions:  0,
		Status:       CardStatusNew,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the CardProgress has valid data.
func (p *CardProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}

	if p.CardID == uuid.Nil {
		return ErrProgressCardIDEmpty
	}

	if p.Interval < 0 {
		return ErrInvalidInterval
	}

	if p.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	if p.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	if !p.Status.IsValid() {
		return ErrInvalidCardStatus
	}

	return nil
}

// CardWithProgress pairs a card with the requesting user's progress for it.
// This is the unit the review queue is built from.
type CardWithProgress struct {
	Card     Card         `json:"card"`
	Progress CardProgress `json:"progress"`
}
