package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

var ErrOrderRejected = errors.New("order was rejected by the order service")

// CreateOrder submits the assembled order payload. The caller owns the
// idempotency key for the logical submission and must send the same key on a
// retry; a fresh one is attached only when it was left empty.
func (c *Client) CreateOrder(ctx context.Context, order models.OrderRequest) (*models.OrderResponse, error) {
	if order.IdempotencyKey == "" {
		order.IdempotencyKey = uuid.NewString()
	}

	var resp models.OrderResponse
	if err := c.postJSON(ctx, "create-order", order, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		if resp.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrOrderRejected, resp.Message)
		}
		return nil, ErrOrderRejected
	}
	return &resp, nil
}

// InitUser bootstraps the user profile: contact prefill and loyalty balance.
func (c *Client) InitUser(ctx context.Context, userID string) (*models.Profile, error) {
	payload := map[string]string{"tg_id": userID}
	var profile models.Profile
	if err := c.postJSON(ctx, "init-user", payload, &profile); err != nil {
		return nil, err
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}
	return &profile, nil
}
