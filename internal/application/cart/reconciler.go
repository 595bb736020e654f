package cart

import (
	"context"

	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Reconciler folds the anonymous cookie cart into a user's stored cart at login
type Reconciler struct {
	store cart.Store
}

// NewReconciler creates a new Reconciler
func NewReconciler(store cart.Store) *Reconciler {
	return &Reconciler{store: store}
}

// Merge overwrites the user's counts with the cookie's and applies its
// selection flags in one atomic batch. An empty cookie cart is a no-op and
// does not touch the store.
//
// Callers clear the cookie only when err is nil. Merging the same cookie
// twice leaves the store in the same state, so a failed merge is retried on
// the next login.
func (r *Reconciler) Merge(ctx context.Context, userID int64, anonymous cart.Cart) (bool, error) {
	if anonymous.IsEmpty() {
		return false, nil
	}
	if err := r.store.Merge(ctx, userID, anonymous); err != nil {
		return false, err
	}
	logger.L(ctx).Debug("Merged cookie cart", zap.Int64("user_id", userID), zap.Int("entries", len(anonymous)))
	return true, nil
}
