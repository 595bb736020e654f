package trade

import (
	"fmt"
	"time"

	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PayMethod is how the buyer settles an order
type PayMethod int

const (
	PayMethodCash   PayMethod = 1
	PayMethodAlipay PayMethod = 2
)

// IsValid reports whether the pay method is one of the recognised values
func (p PayMethod) IsValid() bool {
	return p == PayMethodCash || p == PayMethodAlipay
}

// String returns the pay method name
func (p PayMethod) String() string {
	switch p {
	case PayMethodCash:
		return "CASH"
	case PayMethodAlipay:
		return "ALIPAY"
	default:
		return fmt.Sprintf("PayMethod(%d)", int(p))
	}
}

// OrderStatus is the lifecycle state of an order
type OrderStatus int

const (
	OrderStatusUnpaid     OrderStatus = 1
	OrderStatusUnsend     OrderStatus = 2
	OrderStatusUnreceived OrderStatus = 3
	OrderStatusUncomment  OrderStatus = 4
	OrderStatusFinished   OrderStatus = 5
	OrderStatusCanceled   OrderStatus = 6
)

// String returns the status name
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusUnpaid:
		return "UNPAID"
	case OrderStatusUnsend:
		return "UNSEND"
	case OrderStatusUnreceived:
		return "UNRECEIVED"
	case OrderStatusUncomment:
		return "UNCOMMENT"
	case OrderStatusFinished:
		return "FINISHED"
	case OrderStatusCanceled:
		return "CANCELED"
	default:
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusUnpaid:
		return target == OrderStatusUnsend || target == OrderStatusCanceled
	case OrderStatusUnsend:
		return target == OrderStatusUnreceived || target == OrderStatusCanceled
	case OrderStatusUnreceived:
		return target == OrderStatusUncomment
	case OrderStatusUncomment:
		return target == OrderStatusFinished
	default:
		return false
	}
}

// InitialStatusFor derives the starting status from the pay method:
// cash orders await shipment, everything else awaits payment.
func InitialStatusFor(p PayMethod) OrderStatus {
	if p == PayMethodCash {
		return OrderStatusUnsend
	}
	return OrderStatusUnpaid
}

const orderIDTimeLayout = "20060102150405"

// NewOrderID combines the second-resolution timestamp with the zero-padded user id.
// Two checkouts by the same user within one second produce the same id; the
// primary key rejects the second one.
func NewOrderID(now time.Time, userID int64) string {
	return now.Format(orderIDTimeLayout) + fmt.Sprintf("%09d", userID)
}

// OrderInfo is the order aggregate root
type OrderInfo struct {
	shared.EventRecorder
	OrderID     string
	UserID      int64
	AddressID   int64
	TotalCount  int
	TotalAmount decimal.Decimal
	Freight     decimal.Decimal
	PayMethod   PayMethod
	Status      OrderStatus
	Lines       []*OrderGoods
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderGoods is an order line. Price is the SKU price at purchase time and is
// never updated afterwards.
type OrderGoods struct {
	ID          int64
	OrderID     string
	SKUID       int64
	Count       int
	Price       decimal.Decimal
	Comment     string
	Score       int
	IsAnonymous bool
	IsCommented bool
	CreatedAt   time.Time
}

// NewOrder creates the order shell with zero totals
func NewOrder(orderID string, userID, addressID int64, payMethod PayMethod, freight decimal.Decimal) (*OrderInfo, error) {
	if orderID == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order id cannot be empty")
	}
	if !payMethod.IsValid() {
		return nil, ErrInvalidPayMethod
	}
	if freight.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FREIGHT", "Freight cannot be negative")
	}

	now := time.Now()
	return &OrderInfo{
		OrderID:     orderID,
		UserID:      userID,
		AddressID:   addressID,
		TotalCount:  0,
		TotalAmount: decimal.Zero,
		Freight:     freight,
		PayMethod:   payMethod,
		Status:      InitialStatusFor(payMethod),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddLine snapshots the SKU price into a new line and accumulates the totals
func (o *OrderInfo) AddLine(sku *catalog.SKU, count int) (*OrderGoods, error) {
	if count <= 0 {
		return nil, catalog.ErrInvalidCount
	}
	line := &OrderGoods{
		OrderID:   o.OrderID,
		SKUID:     sku.ID,
		Count:     count,
		Price:     sku.Price,
		CreatedAt: time.Now(),
	}
	o.Lines = append(o.Lines, line)
	o.TotalCount += count
	o.TotalAmount = o.TotalAmount.Add(sku.Subtotal(count))
	return line, nil
}

// Finalize adds freight to the accumulated total and records OrderPlaced
func (o *OrderInfo) Finalize() error {
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}
	o.TotalAmount = o.TotalAmount.Add(o.Freight)
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// AwaitsOnlinePayment reports whether the order can be sent to the payment gateway
func (o *OrderInfo) AwaitsOnlinePayment() bool {
	return o.PayMethod == PayMethodAlipay && o.Status == OrderStatusUnpaid
}

// MarkPaid moves an unpaid order to awaiting shipment
func (o *OrderInfo) MarkPaid(tradeID string) error {
	if o.Status != OrderStatusUnpaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay order in %s status", o.Status))
	}
	o.Status = OrderStatusUnsend
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderPaidEvent(o, tradeID))
	return nil
}

// Payment records a confirmed gateway payment for an order
type Payment struct {
	ID        int64
	OrderID   string
	TradeID   string
	CreatedAt time.Time
}

var _ shared.AggregateRoot = (*OrderInfo)(nil)
