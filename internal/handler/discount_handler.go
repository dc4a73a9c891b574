package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
	"github.com/gpt716169-creator/sheinwibe/internal/service"
)

// CouponHandler applies or clears a coupon: POST /cart/coupon. An empty
// code clears the active coupon.
type CouponHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewCouponHandler(logger *log.Logger, cartService *service.CartService) *CouponHandler {
	return &CouponHandler{logger: logger, cartService: cartService}
}

type couponPayload struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

func (h *CouponHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload couponPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var view models.CartView
	var err error
	if payload.Code == "" {
		view, err = h.cartService.ClearCoupon(r.Context(), payload.UserID)
	} else {
		view, err = h.cartService.ApplyCoupon(r.Context(), payload.UserID, payload.Code)
	}
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, view)
}

// PointsHandler sets the requested points redemption: POST /cart/points.
// With "max": true the largest possible redemption is requested instead of
// an explicit amount.
type PointsHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewPointsHandler(logger *log.Logger, cartService *service.CartService) *PointsHandler {
	return &PointsHandler{logger: logger, cartService: cartService}
}

type pointsPayload struct {
	UserID string       `json:"user_id"`
	Points models.Money `json:"points"`
	Max    bool         `json:"max"`
}

func (h *PointsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload pointsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var view models.CartView
	var err error
	if payload.Max {
		view, err = h.cartService.UseMaxPoints(r.Context(), payload.UserID)
	} else {
		view, err = h.cartService.SetPoints(r.Context(), payload.UserID, payload.Points)
	}
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, view)
}
