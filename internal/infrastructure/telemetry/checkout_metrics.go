package telemetry

import (
	"context"

	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/metric"
)

// CheckoutMetrics counts placed and paid orders from committed events and
// records stock compare-and-set conflicts reported by order placement.
type CheckoutMetrics struct {
	ordersPlaced  *Counter
	itemsSold     *Counter
	orderAmount   *Histogram
	ordersPaid    *Counter
	casConflicts  *Counter
	stockTimeouts *Counter
}

// NewCheckoutMetrics registers the checkout instruments on meter
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	m := &CheckoutMetrics{}
	var err error
	if m.ordersPlaced, err = NewCounter(meter, "mall_orders_placed_total", "Orders committed", "{order}"); err != nil {
		return nil, err
	}
	if m.itemsSold, err = NewCounter(meter, "mall_order_items_total", "Units sold across committed orders", "{item}"); err != nil {
		return nil, err
	}
	if m.orderAmount, err = NewHistogram(meter, "mall_order_amount", "Order total including freight", "CNY",
		10, 50, 100, 200, 500, 1000, 5000, 10000); err != nil {
		return nil, err
	}
	if m.ordersPaid, err = NewCounter(meter, "mall_orders_paid_total", "Orders confirmed by the payment gateway", "{order}"); err != nil {
		return nil, err
	}
	if m.casConflicts, err = NewCounter(meter, "mall_stock_cas_conflicts_total", "Stock compare-and-set attempts lost to a concurrent writer", "{attempt}"); err != nil {
		return nil, err
	}
	if m.stockTimeouts, err = NewCounter(meter, "mall_stock_contention_total", "Checkouts aborted after exhausting stock retries", "{order}"); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes implements shared.EventHandler
func (m *CheckoutMetrics) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderPaid}
}

// Handle implements shared.EventHandler
func (m *CheckoutMetrics) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *trade.OrderPlacedEvent:
		method := AttrPayMethod.String(e.PayMethod.String())
		m.ordersPlaced.Inc(ctx, method)
		m.itemsSold.Add(ctx, int64(e.TotalCount), method)
		m.orderAmount.Record(ctx, e.TotalAmount.InexactFloat64(), method)
	case *trade.OrderPaidEvent:
		m.ordersPaid.Inc(ctx)
	}
	return nil
}

// RecordCASConflict counts one lost compare-and-set attempt
func (m *CheckoutMetrics) RecordCASConflict(ctx context.Context) {
	m.casConflicts.Inc(ctx)
}

// RecordStockContention counts one checkout that gave up after its retry budget
func (m *CheckoutMetrics) RecordStockContention(ctx context.Context) {
	m.stockTimeouts.Inc(ctx)
}

var _ shared.EventHandler = (*CheckoutMetrics)(nil)
