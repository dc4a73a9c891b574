package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
	"github.com/gpt716169-creator/sheinwibe/internal/pricing"
)

// CouponCache is an optional read-through cache for coupon resolutions.
// A nil cache, and any cache error, degrades to a direct lookup.
type CouponCache interface {
	GetCoupon(ctx context.Context, code string) (*models.Coupon, error)
	StoreCoupon(ctx context.Context, coupon *models.Coupon) error
}

type rawCoupon struct {
	Code           string    `json:"code"`
	Kind           string    `json:"kind"`
	Value          flexMoney `json:"value"`
	MinOrderAmount flexMoney `json:"min_order_amount"`
}

// Coupons resolves coupon codes against the coupon collaborator, caching
// results.
type Coupons struct {
	client *Client
	cache  CouponCache
}

func NewCoupons(client *Client, cache CouponCache) *Coupons {
	return &Coupons{client: client, cache: cache}
}

// Resolve looks a coupon code up. An unknown or expired code returns
// pricing.ErrCouponNotFound.
func (c *Coupons) Resolve(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pricing.ErrCouponNotFound
	}

	if c.cache != nil {
		if coupon, err := c.cache.GetCoupon(ctx, code); err != nil {
			c.client.logger.Printf("Warning: coupon cache read failed for %s: %v", code, err)
		} else if coupon != nil {
			return coupon, nil
		}
	}

	var raw rawCoupon
	if err := c.client.getJSON(ctx, "get-coupon", url.Values{"code": {code}}, &raw); err != nil {
		return nil, err
	}
	if raw.Kind == "" {
		return nil, pricing.ErrCouponNotFound
	}

	coupon := &models.Coupon{
		Code:           code,
		Kind:           models.CouponKind(raw.Kind),
		Value:          int64(raw.Value),
		MinOrderAmount: int64(raw.MinOrderAmount),
	}
	if coupon.Kind != models.CouponFixed && coupon.Kind != models.CouponPercentage {
		return nil, pricing.ErrCouponNotFound
	}

	if c.cache != nil {
		if err := c.cache.StoreCoupon(ctx, coupon); err != nil {
			c.client.logger.Printf("Warning: coupon cache write failed for %s: %v", code, err)
		}
	}
	return coupon, nil
}
