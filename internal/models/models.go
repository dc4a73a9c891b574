package models

// Money is a currency amount in whole rubles. All pricing arithmetic is
// integer: divisions floor, and rounding remainders are reconciled
// explicitly.
type Money = int64

// SizeNotSelected is the sentinel the catalog uses for an item added to the
// cart before the user picked a size. Such an item cannot be checked out.
const SizeNotSelected = "NOT_SELECTED"

type LineItem struct {
	ID          string `json:"id"`
	ProductRef  string `json:"product_ref"`
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url"`
	UnitPrice   Money  `json:"final_price_rub"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	ColorHex    string `json:"color_hex,omitempty"`
	IsAvailable bool   `json:"is_in_stock"`
}

// Subtotal is the pre-discount line total.
func (li LineItem) Subtotal() Money {
	return li.UnitPrice * Money(li.Quantity)
}

// SizeResolved reports whether the user has picked a concrete size.
func (li LineItem) SizeResolved() bool {
	return li.Size != "" && li.Size != SizeNotSelected
}

type CouponKind string

const (
	CouponFixed      CouponKind = "fixed"
	CouponPercentage CouponKind = "percentage"
)

// Coupon is a resolved coupon definition as returned by the coupon
// collaborator.
type Coupon struct {
	Code           string     `json:"code"`
	Kind           CouponKind `json:"kind"`
	Value          Money      `json:"value"`
	MinOrderAmount Money      `json:"min_order_amount"`
}

// DiscountState holds the discount inputs the user set plus the amounts
// derived from them against the current selection subtotal. Derived fields
// are recomputed after every cart mutation, never carried over stale.
type DiscountState struct {
	Coupon          *Coupon `json:"coupon,omitempty"`
	CouponDiscount  Money   `json:"coupon_discount"`
	PointsRequested Money   `json:"points_requested"`
	PointsRedeemed  Money   `json:"points_redeemed"`
}

func (d DiscountState) TotalDiscount() Money {
	return d.CouponDiscount + d.PointsRedeemed
}

// AllocatedLineItem is the checkout-time view of a selected line item with
// the order-level discount distributed down to it. AllocatedTotal is the
// audited figure: allocated totals sum exactly to subtotal minus discount.
// AllocatedUnitPrice is its floored per-unit derivative kept for the order
// record.
type AllocatedLineItem struct {
	ID                 string `json:"id"`
	ProductRef         string `json:"product_ref"`
	ProductName        string `json:"product_name"`
	Quantity           int    `json:"quantity"`
	Size               string `json:"size"`
	Color              string `json:"color"`
	UnitPrice          Money  `json:"unit_price"`
	DiscountShare      Money  `json:"discount_share"`
	AllocatedTotal     Money  `json:"allocated_total"`
	AllocatedUnitPrice Money  `json:"allocated_unit_price"`
}

// Profile is the user record the init-user collaborator returns; it supplies
// the loyalty balance and contact prefill.
type Profile struct {
	UserID string `json:"tg_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Points Money  `json:"points"`
}

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
)

// PickupPoint is a pickup-point candidate from the search collaborator.
type PickupPoint struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// ContactInfo is the checkout contact form. Both consent flags must be set
// before an order may be submitted.
type ContactInfo struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Agreed        bool   `json:"agreed"`
	CustomsAgreed bool   `json:"customs_agreed"`
}

// DeliveryInfo selects either a pickup point or a courier address.
type DeliveryInfo struct {
	Method      DeliveryMethod `json:"method"`
	PickupPoint *PickupPoint   `json:"pickup_point,omitempty"`
	Address     string         `json:"address,omitempty"`
}

// CartView is the read model a cart request returns: current items,
// selection, and the deterministic totals derived from them.
type CartView struct {
	Items          []LineItem `json:"items"`
	SelectedIDs    []string   `json:"selected_ids"`
	Subtotal       Money      `json:"subtotal"`
	CouponCode     string     `json:"coupon_code,omitempty"`
	CouponDiscount Money      `json:"coupon_discount"`
	PointsRedeemed Money      `json:"points_redeemed"`
	PointsBalance  Money      `json:"points_balance"`
	Total          Money      `json:"total"`
}

// OrderRequest is the payload sent to the order-creation collaborator.
type OrderRequest struct {
	IdempotencyKey string              `json:"idempotency_key"`
	UserID         string              `json:"tg_id"`
	Contact        ContactInfo         `json:"user_info"`
	Delivery       DeliveryInfo        `json:"delivery"`
	Items          []AllocatedLineItem `json:"items"`
	CouponCode     string              `json:"coupon_code,omitempty"`
	CouponDiscount Money               `json:"coupon_discount"`
	PointsRedeemed Money               `json:"points_redeemed"`
	Total          Money               `json:"final_total"`
}

type OrderResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
	Message string `json:"message,omitempty"`
}
