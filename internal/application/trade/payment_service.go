package trade

import (
	"context"
	"errors"
	"net/url"

	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/domain/trade"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/mall/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrPaymentUnavailable is returned when no payment gateway is configured
var ErrPaymentUnavailable = shared.NewDomainError("PAYMENT_UNAVAILABLE", "Online payment is not available")

// PaymentService moves Alipay orders from UNPAID to UNSEND
type PaymentService struct {
	orderRepo trade.OrderRepository
	gateway   trade.PaymentGateway
	txScope   TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService. A nil gateway disables online payment.
func NewPaymentService(
	orderRepo trade.OrderRepository,
	gateway trade.PaymentGateway,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		txScope:   txScope,
		publisher: publisher,
		logger:    logger,
	}
}

// PaymentURL returns the gateway page for an unpaid Alipay order of userID
func (s *PaymentService) PaymentURL(ctx context.Context, orderID string, userID int64) (*PaymentURLResponse, error) {
	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}

	order, err := s.orderRepo.FindForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, trade.ErrOrderNotFound) {
			return nil, trade.ErrInvalidOrder
		}
		return nil, err
	}
	if !order.AwaitsOnlinePayment() {
		return nil, trade.ErrInvalidOrder
	}

	link, err := s.gateway.PagePayURL(ctx, trade.PagePayRequest{OrderID: order.OrderID, Amount: order.TotalAmount})
	if err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to build payment url", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return &PaymentURLResponse{AlipayURL: link}, nil
}

// ConfirmReturn verifies the gateway's signed return parameters, records the
// payment and marks the order paid in one transaction, then publishes OrderPaid.
func (s *PaymentService) ConfirmReturn(ctx context.Context, params url.Values) (resp *PaymentStatusResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PaymentService", "ConfirmReturn")
	defer func() { telemetry.EndSpan(span, err) }()

	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}

	result, err := s.gateway.VerifyReturn(params)
	if err != nil {
		logger.Ctx(ctx, s.logger).Warn("Rejected payment return", zap.Error(err))
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment verification failed").WithCause(err)
	}
	span.SetAttributes(attribute.String("order.id", result.OrderID))

	order, err := s.orderRepo.FindByOrderID(ctx, result.OrderID)
	if err != nil {
		if errors.Is(err, trade.ErrOrderNotFound) {
			return nil, trade.ErrInvalidOrder
		}
		return nil, err
	}
	if !order.AwaitsOnlinePayment() {
		return nil, trade.ErrPaymentRecorded
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.PaymentRepo().Create(ctx, &trade.Payment{OrderID: order.OrderID, TradeID: result.TradeID}); err != nil {
			return err
		}
		moved, err := repos.OrderRepo().UpdateStatus(ctx, order.OrderID, trade.OrderStatusUnpaid, trade.OrderStatusUnsend)
		if err != nil {
			return err
		}
		if !moved {
			return trade.ErrPaymentRecorded
		}
		return order.MarkPaid(result.TradeID)
	})
	if err != nil {
		order.ClearDomainEvents()
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Failed to publish payment events", zap.String("order_id", order.OrderID), zap.Error(err))
		}
	}
	order.ClearDomainEvents()

	logger.Ctx(ctx, s.logger).Info("Order paid",
		zap.String("order_id", order.OrderID),
		zap.String("trade_id", result.TradeID))
	return &PaymentStatusResponse{TradeID: result.TradeID}, nil
}
