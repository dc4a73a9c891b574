package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

func validContact() models.ContactInfo {
	return models.ContactInfo{
		Name:          "Ivan Ivanov",
		Phone:         "+79991234567",
		Email:         "ivan@example.com",
		Agreed:        true,
		CustomsAgreed: true,
	}
}

func pickupDelivery() models.DeliveryInfo {
	return models.DeliveryInfo{
		Method:      models.DeliveryPickup,
		PickupPoint: &models.PickupPoint{Name: "PVZ-1", City: "Moscow", Address: "Tverskaya 1"},
	}
}

func readyItem(id string) models.LineItem {
	return models.LineItem{
		ID:          id,
		UnitPrice:   1500,
		Quantity:    1,
		Size:        "M",
		IsAvailable: true,
	}
}

func TestValidate_Proceeds(t *testing.T) {
	gate := NewGate(1000)

	err := gate.Validate([]models.LineItem{readyItem("a")}, 1500, validContact(), pickupDelivery())

	assert.Nil(t, err)
}

func TestValidate_EmptySelection(t *testing.T) {
	gate := NewGate(1000)

	err := gate.Validate(nil, 0, validContact(), pickupDelivery())

	require.NotNil(t, err)
	assert.Equal(t, FailEmptySelection, err.Code)
}

func TestValidate_UnresolvedSizeReportsIDs(t *testing.T) {
	gate := NewGate(1000)
	bad := readyItem("b")
	bad.Size = models.SizeNotSelected

	err := gate.Validate([]models.LineItem{readyItem("a"), bad}, 3000, validContact(), pickupDelivery())

	require.NotNil(t, err)
	assert.Equal(t, FailUnresolvedSize, err.Code)
	assert.Equal(t, []string{"b"}, err.ItemIDs)
	assert.Contains(t, err.Message, "b")
}

func TestValidate_UnavailableSelected(t *testing.T) {
	gate := NewGate(1000)
	gone := readyItem("a")
	gone.IsAvailable = false

	err := gate.Validate([]models.LineItem{gone}, 1500, validContact(), pickupDelivery())

	require.NotNil(t, err)
	assert.Equal(t, FailUnavailableItems, err.Code)
	assert.Equal(t, []string{"a"}, err.ItemIDs)
}

func TestValidate_MinimumOrder(t *testing.T) {
	gate := NewGate(1000)

	err := gate.Validate([]models.LineItem{readyItem("a")}, 999, validContact(), pickupDelivery())

	require.NotNil(t, err)
	assert.Equal(t, FailMinimumOrder, err.Code)
}

func TestValidate_ContactAndConsent(t *testing.T) {
	gate := NewGate(1000)
	items := []models.LineItem{readyItem("a")}

	tests := []struct {
		name   string
		mutate func(*models.ContactInfo)
	}{
		{"missing name", func(c *models.ContactInfo) { c.Name = " " }},
		{"missing phone", func(c *models.ContactInfo) { c.Phone = "" }},
		{"offer not accepted", func(c *models.ContactInfo) { c.Agreed = false }},
		{"customs not accepted", func(c *models.ContactInfo) { c.CustomsAgreed = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact := validContact()
			tt.mutate(&contact)
			err := gate.Validate(items, 1500, contact, pickupDelivery())
			require.NotNil(t, err)
			assert.Equal(t, FailContactIncomplete, err.Code)
		})
	}
}

func TestValidate_DeliveryDestination(t *testing.T) {
	gate := NewGate(1000)
	items := []models.LineItem{readyItem("a")}

	err := gate.Validate(items, 1500, validContact(), models.DeliveryInfo{Method: models.DeliveryPickup})
	require.NotNil(t, err)
	assert.Equal(t, FailDeliveryMissing, err.Code)

	err = gate.Validate(items, 1500, validContact(), models.DeliveryInfo{Method: models.DeliveryCourier})
	require.NotNil(t, err)
	assert.Equal(t, FailDeliveryMissing, err.Code)

	err = gate.Validate(items, 1500, validContact(), models.DeliveryInfo{Method: models.DeliveryCourier, Address: "Lenina 5"})
	assert.Nil(t, err)

	err = gate.Validate(items, 1500, validContact(), models.DeliveryInfo{})
	require.NotNil(t, err)
	assert.Equal(t, FailDeliveryMissing, err.Code)
}

func TestValidate_ChecksRunInOrder(t *testing.T) {
	gate := NewGate(1000)
	bad := readyItem("a")
	bad.Size = models.SizeNotSelected
	bad.IsAvailable = false

	// Size check fires before availability and contact checks.
	err := gate.Validate([]models.LineItem{bad}, 0, models.ContactInfo{}, models.DeliveryInfo{})

	require.NotNil(t, err)
	assert.Equal(t, FailUnresolvedSize, err.Code)
}
