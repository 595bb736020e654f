package trade

import (
	"github.com/mall/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest is the body of POST /orders/
type PlaceOrderRequest struct {
	Address   int64 `json:"address" binding:"required,min=1"`
	PayMethod int   `json:"pay_method" binding:"required"`
}

// PlaceOrderCommand carries a checkout for one user
type PlaceOrderCommand struct {
	UserID    int64
	AddressID int64
	PayMethod trade.PayMethod
}

// PlaceOrderResponse is returned after a successful checkout
type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
}

// SettlementSKU is one selected cart line on the settlement page
type SettlementSKU struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	DefaultImageURL string          `json:"default_image_url"`
	Price           decimal.Decimal `json:"price"`
	Count           int             `json:"count"`
}

// SettlementResponse is the body of GET /orders/settlement/
type SettlementResponse struct {
	Freight decimal.Decimal `json:"freight"`
	SKUs    []SettlementSKU `json:"skus"`
}

// PaymentURLResponse carries the gateway redirect
type PaymentURLResponse struct {
	AlipayURL string `json:"alipay_url"`
}

// PaymentStatusResponse confirms a recorded payment
type PaymentStatusResponse struct {
	TradeID string `json:"trade_id"`
}
