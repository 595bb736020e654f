package trade

import "github.com/mall/backend/internal/domain/shared"

var (
	ErrInvalidPayMethod = shared.NewDomainError("INVALID_PAY_METHOD", "Invalid pay method")
	ErrInvalidAddress   = shared.NewDomainError("INVALID_ADDRESS", "Invalid address")
	ErrEmptyCart        = shared.NewDomainError("CART_EMPTY", "No selected items in the cart")
	ErrEmptyOrder       = shared.NewDomainError("EMPTY_ORDER", "Order has no lines")
	ErrStockContention  = shared.NewDomainError("STOCK_CONTENTION", "Stock is being updated by other orders, please retry")
	ErrDuplicateOrder   = shared.NewDomainError("DUPLICATE_ORDER", "Order submitted too frequently, please retry")
	ErrOrderNotFound    = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrInvalidOrder     = shared.NewDomainError("INVALID_ORDER", "Order information is invalid")
	ErrPaymentRecorded  = shared.NewDomainError("PAYMENT_RECORDED", "Payment has already been recorded")
)
