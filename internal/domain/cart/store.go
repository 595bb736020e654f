package cart

import "context"

// Store is the authenticated, per-user cart held in the key-value store.
// Concurrent writers for the same user are last-write-wins.
type Store interface {
	// Get returns the user's full cart
	Get(ctx context.Context, userID int64) (Cart, error)

	// Set writes count and selection for one sku as a single batch
	Set(ctx context.Context, userID, skuID int64, entry Entry) error

	// Remove deletes skus from both the count mapping and the selected set
	Remove(ctx context.Context, userID int64, skuIDs ...int64) error

	// SelectAll adds every sku of the cart to, or removes it from, the selected set
	SelectAll(ctx context.Context, userID int64, selected bool) error

	// Selected returns the counts of the selected skus
	Selected(ctx context.Context, userID int64) (map[int64]int, error)

	// Merge overwrites the user's counts with the given cart's counts and
	// applies its selection flags. All writes are applied atomically or not at all.
	Merge(ctx context.Context, userID int64, anonymous Cart) error
}
