package trade

import (
	"github.com/mall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "OrderInfo"

// Event type constants
const (
	EventTypeOrderPlaced = "OrderPlaced"
	EventTypeOrderPaid   = "OrderPaid"
)

// OrderLineInfo represents line information for events
type OrderLineInfo struct {
	SKUID int64           `json:"sku_id"`
	Count int             `json:"count"`
	Price decimal.Decimal `json:"price"`
}

// OrderPlacedEvent is raised once an order and its stock deductions are committed.
// Search indexing and metrics subscribe to it.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     string          `json:"order_id"`
	UserID      int64           `json:"user_id"`
	PayMethod   PayMethod       `json:"pay_method"`
	TotalCount  int             `json:"total_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []OrderLineInfo `json:"lines"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *OrderInfo) *OrderPlacedEvent {
	lines := make([]OrderLineInfo, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineInfo{SKUID: l.SKUID, Count: l.Count, Price: l.Price}
	}
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.OrderID),
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		PayMethod:       o.PayMethod,
		TotalCount:      o.TotalCount,
		TotalAmount:     o.TotalAmount,
		Lines:           lines,
	}
}

// SKUIDs returns the sku ids whose stock and sales changed
func (e *OrderPlacedEvent) SKUIDs() []int64 {
	ids := make([]int64, len(e.Lines))
	for i, l := range e.Lines {
		ids[i] = l.SKUID
	}
	return ids
}

// OrderPaidEvent is raised when a gateway payment is confirmed
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID     string          `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TradeID     string          `json:"trade_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *OrderInfo, tradeID string) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.OrderID),
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		TradeID:         tradeID,
		TotalAmount:     o.TotalAmount,
	}
}
