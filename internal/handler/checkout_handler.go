package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gpt716169-creator/sheinwibe/internal/checkout"
	"github.com/gpt716169-creator/sheinwibe/internal/models"
	"github.com/gpt716169-creator/sheinwibe/internal/service"
)

// CheckoutHandler validates and submits an order: POST /checkout.
type CheckoutHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewCheckoutHandler(logger *log.Logger, cartService *service.CartService) *CheckoutHandler {
	return &CheckoutHandler{logger: logger, cartService: cartService}
}

type checkoutPayload struct {
	UserID   string              `json:"user_id"`
	Contact  models.ContactInfo  `json:"contact"`
	Delivery models.DeliveryInfo `json:"delivery"`
}

type checkoutResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.cartService.Checkout(r.Context(), payload.UserID, payload.Contact, payload.Delivery)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(h.logger, w, http.StatusUnprocessableEntity, verr)
		case errors.Is(err, service.ErrOrderFailed):
			writeJSON(h.logger, w, http.StatusBadGateway, checkoutResponse{Status: "failed", Message: err.Error()})
		default:
			writeServiceError(h.logger, w, err)
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, checkoutResponse{
		Status:  "success",
		OrderID: resp.OrderID,
		Message: "Order created successfully",
	})
}
