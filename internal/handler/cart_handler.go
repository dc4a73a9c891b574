package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gpt716169-creator/sheinwibe/internal/cart"
	"github.com/gpt716169-creator/sheinwibe/internal/models"
	"github.com/gpt716169-creator/sheinwibe/internal/pricing"
	"github.com/gpt716169-creator/sheinwibe/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Printf("Error encoding response: %v", err)
	}
}

// writeServiceError maps service-layer errors onto HTTP statuses.
func writeServiceError(logger *log.Logger, w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cart.ErrItemUnavailable):
		status = http.StatusConflict
	case errors.Is(err, pricing.ErrCouponNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pricing.ErrCouponMinimumNotMet):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSizeRequired):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrRemoteSyncFailed):
		status = http.StatusBadGateway
	case errors.Is(err, service.ErrCartLoadFailed):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	writeJSON(logger, w, status, errorResponse{Error: err.Error()})
}

// CartHandler serves the cart view: GET /cart?user_id= (&refresh=1 to force
// a reload from the cart backend).
type CartHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewCartHandler(logger *log.Logger, cartService *service.CartService) *CartHandler {
	return &CartHandler{logger: logger, cartService: cartService}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	var view models.CartView
	var err error
	if r.URL.Query().Get("refresh") == "1" {
		view, err = h.cartService.RefreshCart(r.Context(), userID)
	} else {
		view, err = h.cartService.GetCart(r.Context(), userID)
	}
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, view)
}

// ItemHandler applies edits to a cart line: POST /cart/item with a payload
// carrying either a quantity delta or new attributes.
type ItemHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewItemHandler(logger *log.Logger, cartService *service.CartService) *ItemHandler {
	return &ItemHandler{logger: logger, cartService: cartService}
}

type itemEditPayload struct {
	UserID        string `json:"user_id"`
	ItemID        string `json:"item_id"`
	QuantityDelta *int   `json:"quantity_delta,omitempty"`
	Size          string `json:"size,omitempty"`
	Color         string `json:"color,omitempty"`
}

func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload itemEditPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" || payload.ItemID == "" {
		http.Error(w, "user_id and item_id are required", http.StatusBadRequest)
		return
	}

	var view models.CartView
	var err error
	switch {
	case payload.QuantityDelta != nil:
		view, err = h.cartService.AdjustQuantity(r.Context(), payload.UserID, payload.ItemID, *payload.QuantityDelta)
	case payload.Size != "" || payload.Color != "":
		view, err = h.cartService.SetAttributes(r.Context(), payload.UserID, payload.ItemID, payload.Size, payload.Color)
	default:
		http.Error(w, "quantity_delta or size/color is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, view)
}

// ItemDeleteHandler removes a cart line: POST /cart/item/delete.
type ItemDeleteHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewItemDeleteHandler(logger *log.Logger, cartService *service.CartService) *ItemDeleteHandler {
	return &ItemDeleteHandler{logger: logger, cartService: cartService}
}

type itemDeletePayload struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`
}

func (h *ItemDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload itemDeletePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" || payload.ItemID == "" {
		http.Error(w, "user_id and item_id are required", http.StatusBadRequest)
		return
	}

	view, err := h.cartService.DeleteItem(r.Context(), payload.UserID, payload.ItemID)
	if err != nil && !errors.Is(err, service.ErrRemoteSyncFailed) {
		writeServiceError(h.logger, w, err)
		return
	}
	// The optimistic local delete succeeded even when the remote sync did
	// not; the next reload reconverges.
	writeJSON(h.logger, w, http.StatusOK, view)
}

// SelectHandler toggles purchase selection: POST /cart/select.
type SelectHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewSelectHandler(logger *log.Logger, cartService *service.CartService) *SelectHandler {
	return &SelectHandler{logger: logger, cartService: cartService}
}

type selectPayload struct {
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	Selected bool   `json:"selected"`
}

func (h *SelectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload selectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" || payload.ItemID == "" {
		http.Error(w, "user_id and item_id are required", http.StatusBadRequest)
		return
	}

	view, err := h.cartService.SetSelected(r.Context(), payload.UserID, payload.ItemID, payload.Selected)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, view)
}
