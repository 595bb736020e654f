package trade

import "context"

// OrderRepository persists order aggregates
type OrderRepository interface {
	// Create inserts the order shell. A duplicate order id yields ErrDuplicateOrder.
	Create(ctx context.Context, order *OrderInfo) error

	// UpdateTotals persists total_count and total_amount
	UpdateTotals(ctx context.Context, order *OrderInfo) error

	// FindByOrderID returns the order or ErrOrderNotFound
	FindByOrderID(ctx context.Context, orderID string) (*OrderInfo, error)

	// FindForUser returns the order only when it belongs to userID
	FindForUser(ctx context.Context, orderID string, userID int64) (*OrderInfo, error)

	// UpdateStatus moves the order from one status to another. It returns
	// false when the order was not in the expected status.
	UpdateStatus(ctx context.Context, orderID string, from, to OrderStatus) (bool, error)
}

// OrderGoodsRepository persists order lines
type OrderGoodsRepository interface {
	Create(ctx context.Context, line *OrderGoods) error
	FindByOrderID(ctx context.Context, orderID string) ([]*OrderGoods, error)
}

// PaymentRepository persists confirmed gateway payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
}
