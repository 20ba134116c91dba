package review

import "errors"

// Session and rating errors. These signal contract violations by the caller
// or exhausted queues, not persistence failures; store errors pass through
// unwrapped so callers can inspect them.
var (
	// ErrInvalidRating is returned when a rating is outside the 1-4 scale.
	ErrInvalidRating = errors.New("rating must be between 1 and 4")

	// ErrNoCurrentCard is returned when an operation needs a current card but
	// the session has none (never loaded, or already complete).
	ErrNoCurrentCard = errors.New("no current card")

	// ErrNotFlipped is returned when a card is rated before being flipped.
	ErrNotFlipped = errors.New("current card has not been flipped")

	// ErrAlreadyFlipped is returned when Flip is called twice for one card.
	ErrAlreadyFlipped = errors.New("current card is already flipped")
)
