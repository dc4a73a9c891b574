package cart

import (
	"context"
	"log"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

// StockQuery identifies one cart line for an availability check.
type StockQuery struct {
	ID         string `json:"id"`
	ProductRef string `json:"product_ref"`
}

// StockUpdate is one reconciliation result. A nil UnitPrice means the
// collaborator had no price correction for the item.
type StockUpdate struct {
	ProductRef  string        `json:"product_ref"`
	IsAvailable bool          `json:"is_in_stock"`
	UnitPrice   *models.Money `json:"final_price_rub,omitempty"`
}

// StockChecker is the availability-check collaborator.
type StockChecker interface {
	CheckStock(ctx context.Context, queries []StockQuery) ([]StockUpdate, error)
}

// Reconciler merges authoritative availability and price data into cart
// sessions. A failed check is logged and left for the next tick; it never
// fails the cart.
type Reconciler struct {
	logger  *log.Logger
	checker StockChecker
}

func NewReconciler(logger *log.Logger, checker StockChecker) *Reconciler {
	return &Reconciler{logger: logger, checker: checker}
}

// ReconcileSession runs one availability round trip for a session and merges
// the results. Only isAvailable and unitPrice are written; the merge happens
// before selection pruning so concurrent user edits are never clobbered.
func (r *Reconciler) ReconcileSession(ctx context.Context, userID string, session *Session) error {
	queries := session.StockQueries()
	if len(queries) == 0 {
		return nil
	}

	updates, err := r.checker.CheckStock(ctx, queries)
	if err != nil {
		r.logger.Printf("Reconciler: stock check failed for user %s (will retry next tick): %v", userID, err)
		return err
	}

	merged := session.MergeStockUpdates(updates)
	if merged > 0 {
		r.logger.Printf("Reconciler: merged %d stock updates for user %s", merged, userID)
	}
	return nil
}

// ReconcileAll runs one pass over every live session.
func (r *Reconciler) ReconcileAll(ctx context.Context, registry *Registry) {
	for userID, session := range registry.Snapshot() {
		// Errors retried on the next scheduled tick.
		_ = r.ReconcileSession(ctx, userID, session)
	}
}
