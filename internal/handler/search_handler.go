package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gpt716169-creator/sheinwibe/internal/client"
	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

// SearchHandler serves debounced pickup-point lookups:
// GET /pvz/search?user_id=&q=. Debouncing is scoped to the requesting user.
type SearchHandler struct {
	logger   *log.Logger
	searcher *client.PickupSearcher
}

func NewSearchHandler(logger *log.Logger, searcher *client.PickupSearcher) *SearchHandler {
	return &SearchHandler{logger: logger, searcher: searcher}
}

type searchResponse struct {
	Results []models.PickupPoint `json:"results"`
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	results, err := h.searcher.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		switch {
		case errors.Is(err, client.ErrQueryTooShort):
			writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, client.ErrQuerySuperseded):
			// A newer query took over; this response is intentionally empty.
			writeJSON(h.logger, w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			h.logger.Printf("Pickup point search failed: %v", err)
			writeJSON(h.logger, w, http.StatusBadGateway, errorResponse{Error: "search temporarily unavailable"})
		}
		return
	}
	if results == nil {
		results = []models.PickupPoint{}
	}
	writeJSON(h.logger, w, http.StatusOK, searchResponse{Results: results})
}
