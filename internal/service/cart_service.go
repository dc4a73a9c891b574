package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gpt716169-creator/sheinwibe/internal/cart"
	"github.com/gpt716169-creator/sheinwibe/internal/checkout"
	"github.com/gpt716169-creator/sheinwibe/internal/models"
	"github.com/gpt716169-creator/sheinwibe/internal/pricing"
)

var (
	ErrCartLoadFailed   = errors.New("failed to load cart")
	ErrRemoteSyncFailed = errors.New("saved locally but failed to sync with the cart service, please retry")
	ErrSizeRequired     = errors.New("a size must be selected")
	ErrOrderFailed      = errors.New("order submission failed")
)

// CartBackend is the remote cart collaborator.
type CartBackend interface {
	FetchCart(ctx context.Context, userID string) ([]models.LineItem, error)
	UpdateItem(ctx context.Context, userID string, item models.LineItem) error
	DeleteItem(ctx context.Context, userID, itemID string) error
}

// ProfileBackend bootstraps user profiles (contact prefill, loyalty balance).
type ProfileBackend interface {
	InitUser(ctx context.Context, userID string) (*models.Profile, error)
}

// CouponResolver resolves coupon codes to definitions.
type CouponResolver interface {
	Resolve(ctx context.Context, code string) (*models.Coupon, error)
}

// OrderBackend creates orders.
type OrderBackend interface {
	CreateOrder(ctx context.Context, order models.OrderRequest) (*models.OrderResponse, error)
}

// CartService orchestrates cart sessions: optimistic local mutations with
// best-effort remote sync, discount recomputation, and checkout submission.
type CartService struct {
	logger     *log.Logger
	registry   *cart.Registry
	reconciler *cart.Reconciler
	carts      CartBackend
	profiles   ProfileBackend
	coupons    CouponResolver
	orders     OrderBackend
	calc       *pricing.Calculator
	gate       *checkout.Gate
}

func NewCartService(
	logger *log.Logger,
	registry *cart.Registry,
	reconciler *cart.Reconciler,
	carts CartBackend,
	profiles ProfileBackend,
	coupons CouponResolver,
	orders OrderBackend,
	calc *pricing.Calculator,
	gate *checkout.Gate,
) *CartService {
	return &CartService{
		logger:     logger,
		registry:   registry,
		reconciler: reconciler,
		carts:      carts,
		profiles:   profiles,
		coupons:    coupons,
		orders:     orders,
		calc:       calc,
		gate:       gate,
	}
}

// session returns the user's cart session, bootstrapping it from the
// collaborators on first access: cart fetch, profile fetch for the loyalty
// balance, then one reconciliation pass. The registry publishes the session
// only after a successful bootstrap, so concurrent first requests wait for
// it instead of observing an empty cart.
func (s *CartService) session(ctx context.Context, userID string) (*cart.Session, error) {
	return s.registry.GetOrBootstrap(userID, func(session *cart.Session) error {
		items, err := s.carts.FetchCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCartLoadFailed, err)
		}
		session.ReplaceItems(items)

		if profile, err := s.profiles.InitUser(ctx, userID); err != nil {
			s.logger.Printf("Warning: profile fetch failed for user %s, points balance unknown: %v", userID, err)
		} else {
			session.SetPointsBalance(profile.Points)
		}

		// Initial stock reconciliation; failures retry on the scheduler tick.
		_ = s.reconciler.ReconcileSession(ctx, userID, session)
		return nil
	})
}

// GetCart returns the user's current cart view, loading it first if needed.
func (s *CartService) GetCart(ctx context.Context, userID string) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}
	return session.View(), nil
}

// RefreshCart discards the in-memory session and reloads from the backend.
func (s *CartService) RefreshCart(ctx context.Context, userID string) (models.CartView, error) {
	s.registry.Drop(userID)
	return s.GetCart(ctx, userID)
}

// AdjustQuantity applies a quantity delta locally, then syncs best-effort.
// On sync failure the local state stands and ErrRemoteSyncFailed is
// returned together with the updated view.
func (s *CartService) AdjustQuantity(ctx context.Context, userID, itemID string, delta int) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}

	item, err := session.AdjustQuantity(itemID, delta)
	if err != nil {
		return models.CartView{}, err
	}
	return session.View(), s.syncItem(ctx, userID, item)
}

// SetAttributes saves the edited size/color locally, then syncs best-effort.
// The size must resolve to a concrete value.
func (s *CartService) SetAttributes(ctx context.Context, userID, itemID, size, color string) (models.CartView, error) {
	if size == "" || size == models.SizeNotSelected {
		return models.CartView{}, ErrSizeRequired
	}

	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}

	item, err := session.SetAttributes(itemID, size, color)
	if err != nil {
		return models.CartView{}, err
	}
	return session.View(), s.syncItem(ctx, userID, item)
}

// DeleteItem removes the item locally first, then best-effort remotely.
func (s *CartService) DeleteItem(ctx context.Context, userID, itemID string) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}

	if err := session.Remove(itemID); err != nil {
		return models.CartView{}, err
	}

	if err := s.carts.DeleteItem(ctx, userID, itemID); err != nil {
		s.logger.Printf("Warning: remote delete failed for item %s (user %s): %v", itemID, userID, err)
		return session.View(), ErrRemoteSyncFailed
	}
	return session.View(), nil
}

// SetSelected toggles an item in or out of the purchase selection.
func (s *CartService) SetSelected(ctx context.Context, userID, itemID string, selected bool) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}
	if err := session.SetSelected(itemID, selected); err != nil {
		return models.CartView{}, err
	}
	return session.View(), nil
}

// ApplyCoupon resolves the code and applies it against the current
// selection. Unknown codes and unmet minimums are validation failures that
// leave the discount state unchanged.
func (s *CartService) ApplyCoupon(ctx context.Context, userID, code string) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}

	coupon, err := s.coupons.Resolve(ctx, code)
	if err != nil {
		return models.CartView{}, err
	}
	if err := session.SetCoupon(coupon); err != nil {
		return models.CartView{}, err
	}
	return session.View(), nil
}

// ClearCoupon removes the active coupon.
func (s *CartService) ClearCoupon(ctx context.Context, userID string) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}
	_ = session.SetCoupon(nil)
	return session.View(), nil
}

// SetPoints records the requested points redemption. The applied amount is
// clamped at quote time to the balance and the cap headroom.
func (s *CartService) SetPoints(ctx context.Context, userID string, points models.Money) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}
	session.SetPointsRequested(points)
	return session.View(), nil
}

// UseMaxPoints requests the largest redemption currently possible.
func (s *CartService) UseMaxPoints(ctx context.Context, userID string) (models.CartView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}

	view := session.View()
	maxPoints := s.calc.MaxPoints(view.Subtotal, session.Coupon(), session.PointsBalance())
	session.SetPointsRequested(maxPoints)
	return session.View(), nil
}

// Checkout validates the aggregate state, allocates the discount down to
// line items and submits the order. Validation failures are returned as
// *checkout.ValidationError before any network call.
func (s *CartService) Checkout(ctx context.Context, userID string, contact models.ContactInfo, delivery models.DeliveryInfo) (*models.OrderResponse, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One snapshot feeds both validation and the payload, so a concurrent
	// reconciliation merge cannot slip a just-changed selection past the gate.
	snap := session.Checkout()
	if verr := s.gate.Validate(snap.Items, snap.Quote.Subtotal, contact, delivery); verr != nil {
		return nil, verr
	}

	order := models.OrderRequest{
		IdempotencyKey: snap.OrderKey,
		UserID:         userID,
		Contact:        contact,
		Delivery:       delivery,
		Items:          snap.Allocated,
		CouponCode:     snap.CouponCode,
		CouponDiscount: snap.Quote.CouponDiscount,
		PointsRedeemed: snap.Quote.PointsRedeemed,
		Total:          snap.Quote.Total,
	}

	resp, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Printf("Order submission failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}

	// The remote cart is now owned by the order; a fresh session will be
	// rebuilt from the backend on the next access.
	s.registry.Drop(userID)
	return resp, nil
}

func (s *CartService) syncItem(ctx context.Context, userID string, item models.LineItem) error {
	if err := s.carts.UpdateItem(ctx, userID, item); err != nil {
		s.logger.Printf("Warning: remote item sync failed for item %s (user %s): %v", item.ID, userID, err)
		return ErrRemoteSyncFailed
	}
	return nil
}
