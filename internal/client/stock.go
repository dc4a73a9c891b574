package client

import (
	"context"

	"github.com/gpt716169-creator/sheinwibe/internal/cart"
	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

type checkStockPayload struct {
	Items []cart.StockQuery `json:"items"`
}

type rawStockUpdate struct {
	ProductRef flexString `json:"product_ref"`
	IsInStock  bool       `json:"is_in_stock"`
	UnitPrice  *flexMoney `json:"final_price_rub"`
}

// CheckStock asks the availability collaborator about the given cart lines.
// Implements cart.StockChecker.
func (c *Client) CheckStock(ctx context.Context, queries []cart.StockQuery) ([]cart.StockUpdate, error) {
	var envelope listEnvelope
	if err := c.postJSON(ctx, "check-stock", checkStockPayload{Items: queries}, &envelope); err != nil {
		return nil, err
	}

	var raw []rawStockUpdate
	if err := envelope.Decode(&raw); err != nil {
		return nil, err
	}

	updates := make([]cart.StockUpdate, 0, len(raw))
	for _, r := range raw {
		u := cart.StockUpdate{
			ProductRef:  string(r.ProductRef),
			IsAvailable: r.IsInStock,
		}
		if r.UnitPrice != nil {
			price := models.Money(*r.UnitPrice)
			u.UnitPrice = &price
		}
		updates = append(updates, u)
	}
	return updates, nil
}
