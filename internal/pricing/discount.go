package pricing

import (
	"errors"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

var (
	ErrCouponMinimumNotMet = errors.New("coupon minimum order amount not met")
	ErrCouponNotFound      = errors.New("coupon unknown or expired")
)

// Quote is the result of a discount computation for one selection subtotal.
type Quote struct {
	Subtotal       models.Money
	CouponDiscount models.Money
	PointsRedeemed models.Money
	Total          models.Money
}

func (q Quote) TotalDiscount() models.Money {
	return q.CouponDiscount + q.PointsRedeemed
}

// Calculator computes order-level discounts. Coupon and points are capped
// jointly: their sum never exceeds MaxDiscountPercent of the selection
// subtotal, no matter in which order the user set them.
type Calculator struct {
	MaxDiscountPercent int64
}

func NewCalculator(maxDiscountPercent int64) *Calculator {
	return &Calculator{MaxDiscountPercent: maxDiscountPercent}
}

// Cap returns the joint discount ceiling for a subtotal.
func (c *Calculator) Cap(subtotal models.Money) models.Money {
	if subtotal <= 0 {
		return 0
	}
	return subtotal * c.MaxDiscountPercent / 100
}

// Compute derives the quote for the given inputs. coupon may be nil.
//
// A coupon whose minimum order amount exceeds the subtotal is a validation
// failure: ErrCouponMinimumNotMet is returned and the caller must leave its
// discount state unchanged. Requesting more points than the remaining
// headroom is not an error; the amount silently clamps down to
// min(requested, balance, cap - couponDiscount).
func (c *Calculator) Compute(subtotal models.Money, coupon *models.Coupon, pointsBalance, pointsRequested models.Money) (Quote, error) {
	q := Quote{Subtotal: subtotal}
	limit := c.Cap(subtotal)

	if coupon != nil {
		if subtotal < coupon.MinOrderAmount {
			return Quote{}, ErrCouponMinimumNotMet
		}
		switch coupon.Kind {
		case models.CouponPercentage:
			q.CouponDiscount = subtotal * coupon.Value / 100
		case models.CouponFixed:
			q.CouponDiscount = coupon.Value
		}
		if q.CouponDiscount < 0 {
			q.CouponDiscount = 0
		}
		if q.CouponDiscount > limit {
			q.CouponDiscount = limit
		}
	}

	points := pointsRequested
	if points > pointsBalance {
		points = pointsBalance
	}
	if headroom := limit - q.CouponDiscount; points > headroom {
		points = headroom
	}
	if points < 0 {
		points = 0
	}
	q.PointsRedeemed = points

	q.Total = subtotal - q.CouponDiscount - q.PointsRedeemed
	if q.Total < 0 {
		q.Total = 0
	}
	return q, nil
}

// MaxPoints returns the largest points redemption currently possible:
// bounded by the balance, by half the subtotal, and by the cap headroom the
// active coupon leaves.
func (c *Calculator) MaxPoints(subtotal models.Money, coupon *models.Coupon, pointsBalance models.Money) models.Money {
	if subtotal <= 0 {
		return 0
	}
	q, err := c.Compute(subtotal, coupon, pointsBalance, pointsBalance)
	if err != nil {
		// Coupon no longer valid against this subtotal; points alone apply.
		q, _ = c.Compute(subtotal, nil, pointsBalance, pointsBalance)
	}
	return q.PointsRedeemed
}
