package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtd2x/vocabmaster/internal/api/middleware"
	"github.com/dtd2x/vocabmaster/internal/api/shared"
	"github.com/dtd2x/vocabmaster/internal/domain"
	"github.com/dtd2x/vocabmaster/internal/service/review"
	"github.com/dtd2x/vocabmaster/internal/store"
)

// ReviewHandler serves the study loop: fetching the session queue and
// recording ratings. Session state itself lives on the client; each rating is
// an independent, durable write.
type ReviewHandler struct {
	queueBuilder  *review.QueueBuilder
	reviewService *review.Service
	cards         store.CardStore
	validator     *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(
	queueBuilder *review.QueueBuilder,
	reviewService *review.Service,
	cards store.CardStore,
) *ReviewHandler {
	if queueBuilder == nil {
		panic("queue builder cannot be nil")
	}
	if reviewService == nil {
		panic("review service cannot be nil")
	}
	if cards == nil {
		panic("card store cannot be nil")
	}

	return &ReviewHandler{
		queueBuilder:  queueBuilder,
		reviewService: reviewService,
		cards:         cards,
		validator:     validator.New(),
	}
}

// GetQueue handles GET /review/queue. An optional deck_id query parameter
// restricts the queue to one deck.
func (h *ReviewHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var deckID *uuid.UUID
	if raw := r.URL.Query().Get("deck_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck_id", err)
			return
		}
		deckID = &parsed
	}

	queue, err := h.queueBuilder.Build(r.Context(), userID, deckID, time.Now().UTC())
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QueueResponse{
		Cards: queue,
		Total: len(queue),
	})
}

// RateCard handles POST /review/rate. The write is transactional: either the
// progress, log entry, and stats all land, or the client sees an error and
// can retry the same rating.
func (h *ReviewHandler) RateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req RateCardRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error(), nil)
		return
	}

	card, err := h.cards.GetByID(r.Context(), req.CardID)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	rated, err := h.reviewService.RateCard(
		r.Context(),
		userID,
		card,
		domain.Rating(req.Rating),
		time.Duration(req.DurationMs)*time.Millisecond,
	)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RateCardResponse{
		Progress: rated.Progress,
		XPEarned: rated.XPEarned,
		Streak:   rated.Streak,
		Level:    rated.Level,
	})
}
