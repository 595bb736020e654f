package trade

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/mall/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type paymentFixture struct {
	orders   *memOrderRepository
	payments *memPaymentRepository
	gateway  *MockPaymentGateway
	pub      *capturePublisher
	svc      *PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		orders:   newMemOrderRepository(),
		payments: &memPaymentRepository{},
		gateway:  new(MockPaymentGateway),
		pub:      &capturePublisher{},
	}
	scope := NewNoOpTransactionScope(newMemSKURepository(), f.orders, &memOrderGoodsRepository{}, f.payments)
	f.svc = NewPaymentService(f.orders, f.gateway, scope, f.pub, zap.NewNop())
	return f
}

func (f *paymentFixture) seedOrder(t *testing.T, id string, userID int64, method trade.PayMethod) {
	t.Helper()
	o, err := trade.NewOrder(id, userID, 1, method, decimal.NewFromInt(10))
	require.NoError(t, err)
	o.TotalAmount = decimal.RequireFromString("219.00")
	require.NoError(t, f.orders.Create(context.Background(), o))
}

func TestPaymentService_PaymentURL(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the gateway url for an unpaid alipay order", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.seedOrder(t, "o-1", 42, trade.PayMethodAlipay)
		f.gateway.On("PagePayURL", ctx, mock.MatchedBy(func(r trade.PagePayRequest) bool {
			return r.OrderID == "o-1" && r.Amount.Equal(decimal.NewFromInt(219))
		})).Return("https://openapi.alipaydev.com/gateway.do?x=1", nil)

		resp, err := f.svc.PaymentURL(ctx, "o-1", 42)
		require.NoError(t, err)
		assert.Equal(t, "https://openapi.alipaydev.com/gateway.do?x=1", resp.AlipayURL)
	})

	t.Run("rejects orders that cannot be paid online", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.seedOrder(t, "cash", 42, trade.PayMethodCash)
		f.seedOrder(t, "other", 7, trade.PayMethodAlipay)

		for _, id := range []string{"cash", "other", "missing"} {
			_, err := f.svc.PaymentURL(ctx, id, 42)
			assert.ErrorIs(t, err, trade.ErrInvalidOrder, id)
		}
		f.gateway.AssertNotCalled(t, "PagePayURL", mock.Anything, mock.Anything)
	})

	t.Run("no gateway configured", func(t *testing.T) {
		svc := NewPaymentService(newMemOrderRepository(), nil, nil, nil, zap.NewNop())
		_, err := svc.PaymentURL(ctx, "o-1", 42)
		assert.ErrorIs(t, err, ErrPaymentUnavailable)
	})
}

func TestPaymentService_ConfirmReturn(t *testing.T) {
	ctx := context.Background()
	params := url.Values{"out_trade_no": {"o-1"}, "trade_no": {"T-9"}}

	t.Run("records payment and marks the order paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.seedOrder(t, "o-1", 42, trade.PayMethodAlipay)
		f.gateway.On("VerifyReturn", params).Return(&trade.ReturnResult{OrderID: "o-1", TradeID: "T-9"}, nil)

		resp, err := f.svc.ConfirmReturn(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, "T-9", resp.TradeID)

		stored, _ := f.orders.FindByOrderID(ctx, "o-1")
		assert.Equal(t, trade.OrderStatusUnsend, stored.Status)
		require.Len(t, f.payments.payments, 1)
		assert.Equal(t, "o-1", f.payments.payments[0].OrderID)
		assert.Equal(t, []string{trade.EventTypeOrderPaid}, f.pub.types())
	})

	t.Run("replayed return is rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.seedOrder(t, "o-1", 42, trade.PayMethodAlipay)
		f.gateway.On("VerifyReturn", params).Return(&trade.ReturnResult{OrderID: "o-1", TradeID: "T-9"}, nil)

		_, err := f.svc.ConfirmReturn(ctx, params)
		require.NoError(t, err)
		_, err = f.svc.ConfirmReturn(ctx, params)
		assert.ErrorIs(t, err, trade.ErrPaymentRecorded)
		assert.Len(t, f.payments.payments, 1)
	})

	t.Run("bad signature", func(t *testing.T) {
		f := newPaymentFixture(t)
		errBadSignature := errors.New("signature verification failed")
		f.gateway.On("VerifyReturn", params).Return(nil, errBadSignature)

		_, err := f.svc.ConfirmReturn(ctx, params)
		require.Error(t, err)
		assert.ErrorIs(t, err, errBadSignature)
		assert.Empty(t, f.pub.types())
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.On("VerifyReturn", params).Return(&trade.ReturnResult{OrderID: "o-1", TradeID: "T-9"}, nil)

		_, err := f.svc.ConfirmReturn(ctx, params)
		assert.ErrorIs(t, err, trade.ErrInvalidOrder)
	})

	t.Run("publish failure still confirms", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.seedOrder(t, "o-1", 42, trade.PayMethodAlipay)
		f.pub.err = errors.New("bus stopped")
		f.gateway.On("VerifyReturn", params).Return(&trade.ReturnResult{OrderID: "o-1", TradeID: "T-9"}, nil)

		_, err := f.svc.ConfirmReturn(ctx, params)
		assert.NoError(t, err)
	})
}
