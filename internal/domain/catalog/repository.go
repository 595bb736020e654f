package catalog

import (
	"context"

	"github.com/mall/backend/internal/domain/shared"
)

// SKUListFilter narrows a category listing
type SKUListFilter struct {
	shared.Filter
	CategoryID int64
}

// SKURepository defines the persistence capabilities the order and cart flows need
type SKURepository interface {
	// FindByID returns the SKU or ErrSKUNotFound
	FindByID(ctx context.Context, id int64) (*SKU, error)

	// FindByIDs returns the SKUs that exist among ids, keyed by id
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*SKU, error)

	// ListLaunched lists launched SKUs of a category
	ListLaunched(ctx context.Context, filter SKUListFilter) ([]SKU, int64, error)

	// CompareAndSetStock writes newStock and newSales only if the row still
	// holds expectedStock. It returns false when another writer got there first.
	CompareAndSetStock(ctx context.Context, id int64, expectedStock, newStock, newSales int) (bool, error)

	// AddGoodsSales increments the aggregate sales counter of a Goods row
	AddGoodsSales(ctx context.Context, goodsID int64, delta int) error
}
