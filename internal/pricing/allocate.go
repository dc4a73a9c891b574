package pricing

import (
	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

// Allocate distributes totalDiscount across the selected items proportionally
// to their line subtotals, in the given (stable) order.
//
// Every item except the last gets floor(itemSubtotal / subtotal * totalDiscount);
// the last item absorbs the remainder, so the allocated totals always sum to
// subtotal - totalDiscount exactly. No share ever exceeds its own line
// subtotal: when the absorbed remainder would, the overflow cascades onto the
// preceding items, which always have capacity since totalDiscount is clamped
// to the subtotal.
//
// subtotal must equal the sum of the items' subtotals. A zero subtotal (or an
// empty selection) yields pass-through allocations with no discount.
func Allocate(items []models.LineItem, subtotal, totalDiscount models.Money) []models.AllocatedLineItem {
	allocated := make([]models.AllocatedLineItem, 0, len(items))
	if len(items) == 0 {
		return allocated
	}

	if subtotal <= 0 || totalDiscount <= 0 {
		for _, item := range items {
			allocated = append(allocated, newAllocation(item, 0))
		}
		return allocated
	}

	if totalDiscount > subtotal {
		totalDiscount = subtotal
	}

	shares := make([]models.Money, len(items))
	var assigned models.Money
	for i, item := range items {
		if i == len(items)-1 {
			shares[i] = totalDiscount - assigned
		} else {
			shares[i] = item.Subtotal() * totalDiscount / subtotal
			assigned += shares[i]
		}
	}
	for i := len(items) - 1; i > 0; i-- {
		if over := shares[i] - items[i].Subtotal(); over > 0 {
			shares[i] = items[i].Subtotal()
			shares[i-1] += over
		}
	}

	for i, item := range items {
		allocated = append(allocated, newAllocation(item, shares[i]))
	}
	return allocated
}

func newAllocation(item models.LineItem, share models.Money) models.AllocatedLineItem {
	lineTotal := item.Subtotal() - share
	unitPrice := item.UnitPrice
	if share > 0 && item.Quantity > 0 {
		unitPrice = lineTotal / models.Money(item.Quantity)
	}
	return models.AllocatedLineItem{
		ID:                 item.ID,
		ProductRef:         item.ProductRef,
		ProductName:        item.ProductName,
		Quantity:           item.Quantity,
		Size:               item.Size,
		Color:              item.Color,
		UnitPrice:          item.UnitPrice,
		DiscountShare:      share,
		AllocatedTotal:     lineTotal,
		AllocatedUnitPrice: unitPrice,
	}
}
