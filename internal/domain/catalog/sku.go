package catalog

import (
	"github.com/mall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SKU is a purchasable product variant with its own price and stock.
// Stock and Sales are only changed through SKURepository.CompareAndSetStock.
type SKU struct {
	shared.BaseEntity
	GoodsID         int64
	CategoryID      int64
	Name            string
	Caption         string
	Price           decimal.Decimal
	CostPrice       decimal.Decimal
	MarketPrice     decimal.Decimal
	Stock           int
	Sales           int
	Comments        int
	IsLaunched      bool
	DefaultImageURL string
}

// CanFulfil reports whether count units can be taken from the current stock.
// Taking the stock down to exactly zero is allowed.
func (s *SKU) CanFulfil(count int) bool {
	return count > 0 && count <= s.Stock
}

// Deduct returns the stock and sales values after selling count units.
func (s *SKU) Deduct(count int) (newStock, newSales int, err error) {
	if count <= 0 {
		return 0, 0, ErrInvalidCount
	}
	if !s.CanFulfil(count) {
		return 0, 0, shared.ErrInsufficientStock
	}
	return s.Stock - count, s.Sales + count, nil
}

// Subtotal is the line amount for count units at the current price.
func (s *SKU) Subtotal(count int) decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(count)))
}

// Goods is the product aggregate a SKU belongs to. It carries the
// aggregate sales counter across all of its SKUs.
type Goods struct {
	shared.BaseEntity
	Name     string
	Sales    int
	Comments int
}
