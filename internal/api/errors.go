package api

import (
	"errors"
	"net/http"

	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/generation"
	"github.com/dtd2x/vocabmaster/internal/service/auth"
	"github.com/dtd2x/vocabmaster/internal/service/deck"
	"github.com/dtd2x/vocabmaster/internal/service/review"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// statusForError maps service and store errors to an HTTP status and a
// sanitized client-facing message. Internal details stay in the logs.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrNotFlipped),
		errors.Is(err, review.ErrAlreadyFlipped),
		errors.Is(err, generation.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "Not allowed"

	case errors.Is(err, review.ErrNoCurrentCard):
		return http.StatusNotFound, "No current card"

	case store.IsNotFoundError(err):
		return http.StatusNotFound, "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict, "Email already registered"

	case errors.Is(err, deck.ErrGenerationDisabled):
		return http.StatusServiceUnavailable, "Card generation is not available"

	case errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusBadGateway, "Card generation failed"

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
