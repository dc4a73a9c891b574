// Package checkout validates the aggregate cart state before an order is
// submitted. All checks run locally; no network call is made until the gate
// passes.
package checkout

import (
	"fmt"
	"strings"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

// FailureCode identifies which gate check rejected the submission.
type FailureCode string

const (
	FailEmptySelection    FailureCode = "empty_selection"
	FailUnresolvedSize    FailureCode = "unresolved_size"
	FailUnavailableItems  FailureCode = "unavailable_selected"
	FailMinimumOrder      FailureCode = "minimum_order"
	FailContactIncomplete FailureCode = "contact_incomplete"
	FailDeliveryMissing   FailureCode = "delivery_missing"
)

// ValidationError is a user-correctable gate failure. It is reported inline,
// never sent to collaborators.
type ValidationError struct {
	Code    FailureCode `json:"code"`
	Message string      `json:"message"`
	ItemIDs []string    `json:"item_ids,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Gate holds the order-level thresholds.
type Gate struct {
	MinOrderAmount models.Money
}

func NewGate(minOrderAmount models.Money) *Gate {
	return &Gate{MinOrderAmount: minOrderAmount}
}

// Validate runs the checks in order and returns the first failure, or nil
// when the order may proceed. subtotal is the selection subtotal the quote
// was computed from.
func (g *Gate) Validate(selected []models.LineItem, subtotal models.Money, contact models.ContactInfo, delivery models.DeliveryInfo) *ValidationError {
	if len(selected) == 0 {
		return &ValidationError{
			Code:    FailEmptySelection,
			Message: "select at least one item",
		}
	}

	var unresolved []string
	for _, item := range selected {
		if !item.SizeResolved() {
			unresolved = append(unresolved, item.ID)
		}
	}
	if len(unresolved) > 0 {
		return &ValidationError{
			Code:    FailUnresolvedSize,
			Message: fmt.Sprintf("resolve size for: %s", strings.Join(unresolved, ", ")),
			ItemIDs: unresolved,
		}
	}

	var unavailable []string
	for _, item := range selected {
		if !item.IsAvailable {
			unavailable = append(unavailable, item.ID)
		}
	}
	if len(unavailable) > 0 {
		return &ValidationError{
			Code:    FailUnavailableItems,
			Message: "remove unavailable items from selection",
			ItemIDs: unavailable,
		}
	}

	if subtotal < g.MinOrderAmount {
		return &ValidationError{
			Code:    FailMinimumOrder,
			Message: fmt.Sprintf("minimum order amount is %d", g.MinOrderAmount),
		}
	}

	if strings.TrimSpace(contact.Name) == "" || strings.TrimSpace(contact.Phone) == "" ||
		!contact.Agreed || !contact.CustomsAgreed {
		return &ValidationError{
			Code:    FailContactIncomplete,
			Message: "complete contact details and accept the agreements",
		}
	}

	switch delivery.Method {
	case models.DeliveryPickup:
		if delivery.PickupPoint == nil {
			return &ValidationError{
				Code:    FailDeliveryMissing,
				Message: "choose a pickup point",
			}
		}
	case models.DeliveryCourier:
		if strings.TrimSpace(delivery.Address) == "" {
			return &ValidationError{
				Code:    FailDeliveryMissing,
				Message: "choose a delivery address",
			}
		}
	default:
		return &ValidationError{
			Code:    FailDeliveryMissing,
			Message: "choose a delivery method",
		}
	}

	return nil
}
