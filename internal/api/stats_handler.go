package api

import (
	"net/http"
	"strconv"

	"github.com/dtd2x/vocabmaster/internal/api/middleware"
	"github.com/dtd2x/vocabmaster/internal/api/shared"
	"github.com/dtd2x/vocabmaster/internal/service/stats"
)

// StatsHandler serves the dashboard statistics endpoints.
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new StatsHandler with the given dependencies.
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	if statsService == nil {
		panic("stats service cannot be nil")
	}
	return &StatsHandler{statsService: statsService}
}

// GetOverview handles GET /stats.
func (h *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	overview, err := h.statsService.Overview(r.Context(), userID)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// GetForecast handles GET /stats/forecast. An optional days query parameter
// (default 7, max 30) controls the horizon.
func (h *StatsHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 30 {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"days must be an integer between 1 and 30", nil)
			return
		}
		days = parsed
	}

	forecast, err := h.statsService.Forecast(r.Context(), userID, days)
	if err != nil {
		status, message := statusForError(err)
		shared.RespondWithError(w, r, status, message, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, forecast)
}
