package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dtd2x/vocabmaster/internal/api/middleware"
	"github.com/dtd2x/vocabmaster/internal/api/shared"
	"github.com/dtd2x/vocabmaster/internal/service/deck"
)

// DeckHandler handles deck and card management requests.
type DeckHandler struct {
	deckService *deck.Service
	validator   *validator.Validate
}

// NewDeckHandler creates a new DeckHandler with the given dependencies.
func NewDeckHandler(deckService *deck.Service) *DeckHandler {
	if deckService == nil {
		panic("deck service cannot be nil")
	}

	return &DeckHandler{
		deckService: deckService,
		validator:   validator.New(),
	}
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CreateDeckRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error(), nil)
		return
	}

	created, err := h.deckService.CreateDeck(r.Context(), userID, req.Name, req.Description, req.Language)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// ListDecks handles GET /decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	decks, err := h.deckService.ListDecks(r.Context(), userID)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// GetDeck handles GET /decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	deckID, err := URLParamUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID", err)
		return
	}

	found, err := h.deckService.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, found)
}

// DeleteDeck handles DELETE /decks/{deckID}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	deckID, err := URLParamUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID", err)
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), userID, deckID); err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// ListCards handles GET /decks/{deckID}/cards.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	deckID, err := URLParamUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID", err)
		return
	}

	cards, err := h.deckService.ListCards(r.Context(), userID, deckID)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// AddCard handles POST /decks/{deckID}/cards.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	deckID, err := URLParamUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID", err)
		return
	}

	var req AddCardRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error(), nil)
		return
	}

	card, err := h.deckService.AddCard(
		r.Context(), userID, deckID,
		req.Front, req.Back, req.ExampleSentence, req.Pronunciation,
	)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// DeleteCard handles DELETE /cards/{cardID}.
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	cardID, err := URLParamUUID(r, "cardID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID", err)
		return
	}

	if err := h.deckService.DeleteCard(r.Context(), userID, cardID); err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// AdoptDeck handles POST /decks/{deckID}/adopt. It links the user to every
// card in the deck so they start appearing as new cards in the queue.
func (h *DeckHandler) AdoptDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	deckID, err := URLParamUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID", err)
		return
	}

	created, err := h.deckService.AdoptDeck(r.Context(), userID, deckID)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AdoptDeckResponse{CardsInitialized: created})
}

// GenerateCards handles POST /decks/{deckID}/generate.
func (h *DeckHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	deckID, err := URLParamUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID", err)
		return
	}

	var req GenerateCardsRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error(), nil)
		return
	}

	generated, err := h.deckService.GenerateCards(r.Context(), userID, deckID, req.Topic, req.Count)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, generated)
}
