package client

import (
	"context"
	"net/url"

	"github.com/gpt716169-creator/sheinwibe/internal/colors"
	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

// rawLineItem is the wire shape of a cart record before normalization.
type rawLineItem struct {
	ID          flexString `json:"id"`
	ProductRef  flexString `json:"product_ref"`
	ProductName string     `json:"product_name"`
	ImageURL    string     `json:"image_url"`
	UnitPrice   flexMoney  `json:"final_price_rub"`
	Quantity    int        `json:"quantity"`
	Size        string     `json:"size"`
	Color       string     `json:"color"`
	IsInStock   *bool      `json:"is_in_stock"`
}

// FetchCart loads the user's cart records. A missing quantity defaults to 1
// and a missing stock flag means available, matching the storefront's
// historical behavior.
func (c *Client) FetchCart(ctx context.Context, userID string) ([]models.LineItem, error) {
	var envelope listEnvelope
	query := url.Values{"tg_id": {userID}}
	if err := c.getJSON(ctx, "get-cart", query, &envelope); err != nil {
		return nil, err
	}

	var raw []rawLineItem
	if err := envelope.Decode(&raw); err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(raw))
	for _, r := range raw {
		item := models.LineItem{
			ID:          string(r.ID),
			ProductRef:  string(r.ProductRef),
			ProductName: r.ProductName,
			ImageURL:    r.ImageURL,
			UnitPrice:   int64(r.UnitPrice),
			Quantity:    r.Quantity,
			Size:        r.Size,
			Color:       r.Color,
			IsAvailable: r.IsInStock == nil || *r.IsInStock,
		}
		if item.ProductRef == "" {
			item.ProductRef = item.ID
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if hex, ok := colors.Hex(item.Color); ok {
			item.ColorHex = hex
		}
		items = append(items, item)
	}
	return items, nil
}

type updateItemPayload struct {
	ID       string `json:"id"`
	UserID   string `json:"tg_id"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// UpdateItem syncs an edited item to the cart backend. The call is
// idempotent on the backend side; replaying the same payload is a no-op.
func (c *Client) UpdateItem(ctx context.Context, userID string, item models.LineItem) error {
	payload := updateItemPayload{
		ID:       item.ID,
		UserID:   userID,
		Quantity: item.Quantity,
		Size:     item.Size,
		Color:    item.Color,
	}
	return c.postJSON(ctx, "update-item", payload, nil)
}

type deleteItemPayload struct {
	ID     string `json:"id"`
	UserID string `json:"tg_id"`
}

// DeleteItem removes an item from the remote cart.
func (c *Client) DeleteItem(ctx context.Context, userID, itemID string) error {
	return c.postJSON(ctx, "delete-item", deleteItemPayload{ID: itemID, UserID: userID}, nil)
}
