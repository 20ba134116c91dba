package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtd2x/vocabmaster/internal/api"
	apimiddleware "github.com/dtd2x/vocabmaster/internal/api/middleware"
)

// setupRouter builds the route tree: public auth endpoints, then everything
// else behind JWT authentication.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.authService)
	deckHandler := api.NewDeckHandler(app.deckService)
	reviewHandler := api.NewReviewHandler(app.queueBuilder, app.reviewService, app.cardStore)
	statsHandler := api.NewStatsHandler(app.statsService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks", deckHandler.ListDecks)
			r.Get("/decks/{deckID}", deckHandler.GetDeck)
			r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)
			r.Get("/decks/{deckID}/cards", deckHandler.ListCards)
			r.Post("/decks/{deckID}/cards", deckHandler.AddCard)
			r.Post("/decks/{deckID}/adopt", deckHandler.AdoptDeck)
			r.Post("/decks/{deckID}/generate", deckHandler.GenerateCards)
			r.Delete("/cards/{cardID}", deckHandler.DeleteCard)

			r.Get("/review/queue", reviewHandler.GetQueue)
			r.Post("/review/rate", reviewHandler.RateCard)

			r.Get("/stats", statsHandler.GetOverview)
			r.Get("/stats/forecast", statsHandler.GetForecast)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
