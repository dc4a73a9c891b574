package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/gpt716169-creator/sheinwibe/internal/colors"
	"github.com/gpt716169-creator/sheinwibe/internal/models"
	"github.com/gpt716169-creator/sheinwibe/internal/pricing"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrItemUnavailable = errors.New("cart item is not available")
)

// Session is the authoritative in-memory cart state for one user: the line
// item store, the selection set, and the discount inputs. One mutex
// serializes every mutation, so each operation is atomic and the pipeline
// (mutate -> prune selection -> recompute discounts) always runs to
// completion before the next caller observes the state.
type Session struct {
	mu sync.Mutex

	items    []models.LineItem
	selected map[string]bool

	coupon          *models.Coupon
	pointsRequested models.Money
	pointsBalance   models.Money

	// orderKey identifies the current order submission. It is minted on the
	// first Checkout call and survives failed submissions, so a retry replays
	// the same key; any cart mutation invalidates it.
	orderKey string

	calc *pricing.Calculator
}

func NewSession(calc *pricing.Calculator) *Session {
	return &Session{
		selected: make(map[string]bool),
		calc:     calc,
	}
}

// ReplaceItems swaps in a freshly fetched cart. The selection resets to all
// available items, matching first-load behavior; discount inputs are kept
// and re-derived against the new subtotal.
func (s *Session) ReplaceItems(items []models.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]models.LineItem, 0, len(items))
	s.selected = make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		s.items = append(s.items, item)
		if item.IsAvailable {
			s.selected[item.ID] = true
		}
	}
	s.orderKey = ""
}

// SetPointsBalance records the loyalty balance used to clamp redemptions.
func (s *Session) SetPointsBalance(balance models.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointsBalance = balance
}

// AdjustQuantity changes an item's quantity by delta, clamped at 1.
func (s *Session) AdjustQuantity(id string, delta int) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.LineItem{}, ErrItemNotFound
	}
	q := s.items[idx].Quantity + delta
	if q < 1 {
		q = 1
	}
	s.items[idx].Quantity = q
	s.orderKey = ""
	return s.items[idx], nil
}

// SetAttributes updates an item's size and color.
func (s *Session) SetAttributes(id, size, color string) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.LineItem{}, ErrItemNotFound
	}
	if size != "" {
		s.items[idx].Size = size
	}
	if color != "" {
		s.items[idx].Color = color
		if hex, ok := colors.Hex(color); ok {
			s.items[idx].ColorHex = hex
		} else {
			s.items[idx].ColorHex = ""
		}
	}
	s.orderKey = ""
	return s.items[idx], nil
}

// Remove deletes an item from the store; the selection prunes with it.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.pruneSelection()
	s.orderKey = ""
	return nil
}

// SetSelected includes or excludes an item from the purchase. Selecting an
// unavailable item is rejected.
func (s *Session) SetSelected(id string, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	if selected && !s.items[idx].IsAvailable {
		return ErrItemUnavailable
	}
	if selected {
		s.selected[id] = true
	} else {
		delete(s.selected, id)
	}
	s.orderKey = ""
	return nil
}

// SetCoupon validates the coupon against the current selection subtotal and
// stores it. On a validation failure the previous coupon stays in effect.
func (s *Session) SetCoupon(coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if coupon != nil {
		if _, err := s.calc.Compute(s.subtotal(), coupon, s.pointsBalance, s.pointsRequested); err != nil {
			return err
		}
	}
	s.coupon = coupon
	s.orderKey = ""
	return nil
}

// SetPointsRequested records how many points the user wants to spend. The
// applied amount is derived at quote time, never stored.
func (s *Session) SetPointsRequested(points models.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if points < 0 {
		points = 0
	}
	s.pointsRequested = points
	s.orderKey = ""
}

// MergeStockUpdates applies reconciliation results: only availability and,
// when present, unit price are written. Quantity, size, color and the
// selection are never touched here, so a user edit racing the reconcile
// round trip survives. Pruning runs after the merge, dropping newly
// unavailable items from the selection.
func (s *Session) MergeStockUpdates(updates []StockUpdate) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRef := make(map[string]StockUpdate, len(updates))
	for _, u := range updates {
		byRef[u.ProductRef] = u
	}

	merged := 0
	for i := range s.items {
		u, ok := byRef[s.items[i].ProductRef]
		if !ok {
			continue
		}
		s.items[i].IsAvailable = u.IsAvailable
		if u.UnitPrice != nil {
			s.items[i].UnitPrice = *u.UnitPrice
		}
		merged++
	}
	s.pruneSelection()
	if merged > 0 {
		s.orderKey = ""
	}
	return merged
}

// Quote recomputes the discount amounts against the current selection. A
// coupon whose minimum is no longer met is cleared rather than applied
// incorrectly; the second return value reports the clearing.
func (s *Session) Quote() (pricing.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote()
}

func (s *Session) quote() (pricing.Quote, bool) {
	subtotal := s.subtotal()
	q, err := s.calc.Compute(subtotal, s.coupon, s.pointsBalance, s.pointsRequested)
	if err != nil {
		s.coupon = nil
		q, _ = s.calc.Compute(subtotal, nil, s.pointsBalance, s.pointsRequested)
		return q, true
	}
	return q, false
}

// View builds the read model: a snapshot of items, selection and totals.
func (s *Session) View() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, _ := s.quote()

	view := models.CartView{
		Items:          make([]models.LineItem, len(s.items)),
		SelectedIDs:    make([]string, 0, len(s.selected)),
		Subtotal:       q.Subtotal,
		CouponDiscount: q.CouponDiscount,
		PointsRedeemed: q.PointsRedeemed,
		PointsBalance:  s.pointsBalance,
		Total:          q.Total,
	}
	copy(view.Items, s.items)
	for _, item := range s.items {
		if s.selected[item.ID] {
			view.SelectedIDs = append(view.SelectedIDs, item.ID)
		}
	}
	if s.coupon != nil {
		view.CouponCode = s.coupon.Code
	}
	return view
}

// SelectedItems returns the selected line items in store order.
func (s *Session) SelectedItems() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedItems()
}

func (s *Session) selectedItems() []models.LineItem {
	out := make([]models.LineItem, 0, len(s.selected))
	for _, item := range s.items {
		if s.selected[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// StockQueries returns the id/productRef pairs for a reconciliation request.
func (s *Session) StockQueries() []StockQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	queries := make([]StockQuery, 0, len(s.items))
	for _, item := range s.items {
		queries = append(queries, StockQuery{ID: item.ID, ProductRef: item.ProductRef})
	}
	return queries
}

// CheckoutSnapshot carries everything order submission needs, captured under
// one lock acquisition: the selected items, their discount allocations, the
// quote they were priced against, the active coupon code and the idempotency
// key for the submission.
type CheckoutSnapshot struct {
	Items      []models.LineItem
	Allocated  []models.AllocatedLineItem
	Quote      pricing.Quote
	CouponCode string
	OrderKey   string
}

// Checkout produces the snapshot for order submission. Items, allocations
// and quote come from the same locked read, so a reconciliation merge racing
// the checkout cannot desynchronize validation from the submitted payload.
// The order key is reused across retries until a mutation invalidates it.
func (s *Session) Checkout() CheckoutSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, _ := s.quote()
	selected := s.selectedItems()
	if s.orderKey == "" {
		s.orderKey = uuid.NewString()
	}
	snap := CheckoutSnapshot{
		Items:     selected,
		Allocated: pricing.Allocate(selected, q.Subtotal, q.TotalDiscount()),
		Quote:     q,
		OrderKey:  s.orderKey,
	}
	if s.coupon != nil {
		snap.CouponCode = s.coupon.Code
	}
	return snap
}

// Coupon returns the active coupon, or nil.
func (s *Session) Coupon() *models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon
}

// PointsBalance returns the last known loyalty balance.
func (s *Session) PointsBalance() models.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointsBalance
}

func (s *Session) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) subtotal() models.Money {
	var total models.Money
	for _, item := range s.items {
		if s.selected[item.ID] {
			total += item.Subtotal()
		}
	}
	return total
}

// pruneSelection drops selection ids that no longer reference an existing,
// available item. Callers hold the lock.
func (s *Session) pruneSelection() {
	live := make(map[string]bool, len(s.items))
	for _, item := range s.items {
		if item.IsAvailable {
			live[item.ID] = true
		}
	}
	for id := range s.selected {
		if !live[id] {
			delete(s.selected, id)
		}
	}
}
