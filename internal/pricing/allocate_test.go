package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

func item(id string, unitPrice models.Money, quantity int) models.LineItem {
	return models.LineItem{
		ID:          id,
		ProductRef:  "ref-" + id,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		IsAvailable: true,
	}
}

func sumSubtotals(items []models.LineItem) models.Money {
	var total models.Money
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

func TestAllocate_LastItemAbsorbsRemainder(t *testing.T) {
	items := []models.LineItem{item("a", 700, 1), item("b", 300, 1)}

	allocated := Allocate(items, 1000, 333)

	require.Len(t, allocated, 2)
	assert.Equal(t, models.Money(233), allocated[0].DiscountShare)
	assert.Equal(t, models.Money(467), allocated[0].AllocatedTotal)
	assert.Equal(t, models.Money(100), allocated[1].DiscountShare)
	assert.Equal(t, models.Money(200), allocated[1].AllocatedTotal)
	assert.Equal(t, models.Money(667), allocated[0].AllocatedTotal+allocated[1].AllocatedTotal)
}

func TestAllocate_ExactSumInvariant(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.LineItem
		discount models.Money
	}{
		{"two items uneven", []models.LineItem{item("a", 700, 1), item("b", 300, 1)}, 333},
		{"three items with quantities", []models.LineItem{item("a", 199, 3), item("b", 450, 2), item("c", 999, 1)}, 777},
		{"single item", []models.LineItem{item("a", 1234, 2)}, 555},
		{"prime amounts", []models.LineItem{item("a", 101, 1), item("b", 103, 1), item("c", 107, 1)}, 97},
		{"discount equals subtotal", []models.LineItem{item("a", 60, 1), item("b", 40, 1)}, 100},
		{"tiny discount many items", []models.LineItem{item("a", 5000, 1), item("b", 5000, 1), item("c", 5000, 1)}, 1},
		{"tiny trailing items", []models.LineItem{item("a", 997, 1), item("b", 1, 1), item("c", 1, 1), item("d", 1, 1)}, 500},
		{"skewed half discount", []models.LineItem{item("a", 299, 1), item("b", 1, 1), item("c", 1, 1)}, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal := sumSubtotals(tt.items)
			allocated := Allocate(tt.items, subtotal, tt.discount)
			require.Len(t, allocated, len(tt.items))

			var allocatedSum, shareSum models.Money
			for _, a := range allocated {
				allocatedSum += a.AllocatedTotal
				shareSum += a.DiscountShare
				assert.GreaterOrEqual(t, a.AllocatedTotal, models.Money(0))
			}
			assert.Equal(t, subtotal-tt.discount, allocatedSum)
			assert.Equal(t, tt.discount, shareSum)
		})
	}
}

func TestAllocate_RemainderOverflowCascadesBackwards(t *testing.T) {
	// The proportional floors give a,b,c 498+0+0, leaving d a remainder of 2
	// against its line subtotal of 1. The overflow moves onto c instead of
	// driving d's total negative.
	items := []models.LineItem{item("a", 997, 1), item("b", 1, 1), item("c", 1, 1), item("d", 1, 1)}

	allocated := Allocate(items, 1000, 500)

	require.Len(t, allocated, 4)
	shares := []models.Money{allocated[0].DiscountShare, allocated[1].DiscountShare, allocated[2].DiscountShare, allocated[3].DiscountShare}
	assert.Equal(t, []models.Money{498, 0, 1, 1}, shares)
	var sum models.Money
	for _, a := range allocated {
		assert.GreaterOrEqual(t, a.AllocatedTotal, models.Money(0))
		assert.LessOrEqual(t, a.DiscountShare, models.Money(a.Quantity)*a.UnitPrice)
		sum += a.AllocatedTotal
	}
	assert.Equal(t, models.Money(500), sum)
}

func TestAllocate_ZeroSubtotalPassesThrough(t *testing.T) {
	items := []models.LineItem{item("free", 0, 2)}

	allocated := Allocate(items, 0, 100)

	require.Len(t, allocated, 1)
	assert.Equal(t, models.Money(0), allocated[0].DiscountShare)
	assert.Equal(t, models.Money(0), allocated[0].AllocatedUnitPrice)
}

func TestAllocate_NoDiscountKeepsUnitPrices(t *testing.T) {
	items := []models.LineItem{item("a", 700, 2), item("b", 300, 1)}

	allocated := Allocate(items, 1700, 0)

	require.Len(t, allocated, 2)
	for i, a := range allocated {
		assert.Equal(t, items[i].UnitPrice, a.AllocatedUnitPrice)
		assert.Equal(t, items[i].Subtotal(), a.AllocatedTotal)
		assert.Equal(t, models.Money(0), a.DiscountShare)
	}
}

func TestAllocate_DiscountAboveSubtotalIsClamped(t *testing.T) {
	items := []models.LineItem{item("a", 100, 1), item("b", 200, 1)}

	allocated := Allocate(items, 300, 1000)

	var allocatedSum models.Money
	for _, a := range allocated {
		allocatedSum += a.AllocatedTotal
		assert.GreaterOrEqual(t, a.AllocatedTotal, models.Money(0))
	}
	assert.Equal(t, models.Money(0), allocatedSum)
}

func TestAllocate_UnitPriceIsFlooredLineTotal(t *testing.T) {
	// 3 units at 199: line subtotal 597, share 100 -> 497, floored 165/unit.
	items := []models.LineItem{item("a", 199, 3), item("b", 403, 1)}

	allocated := Allocate(items, 1000, 168)

	require.Len(t, allocated, 2)
	assert.Equal(t, models.Money(100), allocated[0].DiscountShare)
	assert.Equal(t, models.Money(497), allocated[0].AllocatedTotal)
	assert.Equal(t, models.Money(165), allocated[0].AllocatedUnitPrice)
}

func TestAllocate_EmptySelection(t *testing.T) {
	assert.Empty(t, Allocate(nil, 0, 0))
}
