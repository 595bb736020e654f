package trade

import (
	"context"
	"errors"
	"time"

	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/domain/identity"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/domain/trade"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/mall/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ContentionRecorder observes optimistic stock update outcomes
type ContentionRecorder interface {
	// RecordCASConflict is called for every compare-and-set that lost a race
	RecordCASConflict(ctx context.Context)
	// RecordStockContention is called when a checkout gave up after all attempts
	RecordStockContention(ctx context.Context)
}

type noopContentionRecorder struct{}

func (noopContentionRecorder) RecordCASConflict(context.Context)     {}
func (noopContentionRecorder) RecordStockContention(context.Context) {}

// OrderPlacementOption configures an OrderPlacementService
type OrderPlacementOption func(*OrderPlacementService)

// WithClock overrides the time source used for order ids
func WithClock(now func() time.Time) OrderPlacementOption {
	return func(s *OrderPlacementService) {
		s.now = now
	}
}

// WithContentionRecorder reports compare-and-set conflicts
func WithContentionRecorder(r ContentionRecorder) OrderPlacementOption {
	return func(s *OrderPlacementService) {
		if r != nil {
			s.contention = r
		}
	}
}

// OrderPlacementService turns the selected part of a user's cart into an order
type OrderPlacementService struct {
	addressRepo identity.AddressRepository
	carts       cart.Store
	txScope     TransactionScope
	publisher   shared.EventPublisher
	cfg         config.OrderConfig
	contention  ContentionRecorder
	now         func() time.Time
	logger      *zap.Logger
}

// NewOrderPlacementService creates a new OrderPlacementService
func NewOrderPlacementService(
	addressRepo identity.AddressRepository,
	carts cart.Store,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	cfg config.OrderConfig,
	logger *zap.Logger,
	opts ...OrderPlacementOption,
) *OrderPlacementService {
	if cfg.MaxStockRetries < 1 {
		cfg.MaxStockRetries = 1
	}
	s := &OrderPlacementService{
		addressRepo: addressRepo,
		carts:       carts,
		txScope:     txScope,
		publisher:   publisher,
		cfg:         cfg,
		contention:  noopContentionRecorder{},
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the checkout, then creates the order, deducts stock
// and writes the order lines in one transaction.
//
// Once the transaction has committed the consumed lines are removed from
// the user's cart and OrderPlaced is published. Neither step can undo the
// order: a failed cart cleanup leaves already-ordered lines in the cart
// until the user removes them, and a failed publish is only logged.
func (s *OrderPlacementService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (order *trade.OrderInfo, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "OrderPlacementService", "PlaceOrder",
		attribute.Int64("user.id", cmd.UserID),
		attribute.String("order.pay_method", cmd.PayMethod.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if !cmd.PayMethod.IsValid() {
		return nil, trade.ErrInvalidPayMethod
	}
	if _, err := s.addressRepo.FindByIDForUser(ctx, cmd.AddressID, cmd.UserID); err != nil {
		if errors.Is(err, identity.ErrAddressNotFound) {
			return nil, trade.ErrInvalidAddress
		}
		return nil, err
	}

	counts, err := s.carts.Selected(ctx, cmd.UserID)
	if err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to read selected cart", zap.Error(err))
		return nil, err
	}
	if len(counts) == 0 {
		return nil, trade.ErrEmptyCart
	}
	selected := cart.New()
	for id, n := range counts {
		selected.Set(id, n, true)
	}
	skuIDs := selected.SKUIDs()

	order, err = trade.NewOrder(trade.NewOrderID(s.now(), cmd.UserID), cmd.UserID, cmd.AddressID, cmd.PayMethod, s.cfg.Freight)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.OrderID))

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}
		for _, id := range skuIDs {
			if err := s.reserveLine(ctx, repos, order, id, counts[id]); err != nil {
				return err
			}
		}
		if err := order.Finalize(); err != nil {
			return err
		}
		return repos.OrderRepo().UpdateTotals(ctx, order)
	})
	if err != nil {
		order.ClearDomainEvents()
		if errors.Is(err, trade.ErrStockContention) {
			s.contention.RecordStockContention(ctx)
		}
		if _, ok := shared.AsDomainError(err); !ok {
			logger.Ctx(ctx, s.logger).Error("Order transaction failed", zap.String("order_id", order.OrderID), zap.Error(err))
		}
		return nil, err
	}

	s.afterCommit(ctx, order, skuIDs)
	return order, nil
}

// reserveLine deducts count units of one SKU with a bounded number of
// compare-and-set attempts, then records the order line.
func (s *OrderPlacementService) reserveLine(ctx context.Context, repos TransactionalRepositories, order *trade.OrderInfo, skuID int64, count int) error {
	skuRepo := repos.SKURepo()

	for attempt := 1; attempt <= s.cfg.MaxStockRetries; attempt++ {
		sku, err := skuRepo.FindByID(ctx, skuID)
		if err != nil {
			return err
		}
		newStock, newSales, err := sku.Deduct(count)
		if err != nil {
			return err
		}

		ok, err := skuRepo.CompareAndSetStock(ctx, sku.ID, sku.Stock, newStock, newSales)
		if err != nil {
			return err
		}
		if !ok {
			s.contention.RecordCASConflict(ctx)
			logger.Ctx(ctx, s.logger).Debug("Stock changed concurrently",
				zap.Int64("sku_id", skuID),
				zap.Int("attempt", attempt))
			continue
		}

		if err := skuRepo.AddGoodsSales(ctx, sku.GoodsID, count); err != nil {
			return err
		}
		line, err := order.AddLine(sku, count)
		if err != nil {
			return err
		}
		return repos.OrderGoodsRepo().Create(ctx, line)
	}

	logger.Ctx(ctx, s.logger).Warn("Giving up on contended stock",
		zap.Int64("sku_id", skuID),
		zap.Int("attempts", s.cfg.MaxStockRetries))
	return trade.ErrStockContention
}

func (s *OrderPlacementService) afterCommit(ctx context.Context, order *trade.OrderInfo, skuIDs []int64) {
	log := logger.Ctx(ctx, s.logger).With(zap.String("order_id", order.OrderID))

	if err := s.carts.Remove(ctx, order.UserID, skuIDs...); err != nil {
		log.Warn("Failed to remove ordered lines from cart", zap.Int64s("sku_ids", skuIDs), zap.Error(err))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
			log.Warn("Failed to publish order events", zap.Error(err))
		}
	}
	order.ClearDomainEvents()

	log.Info("Order placed",
		zap.Int("total_count", order.TotalCount),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.String("pay_method", order.PayMethod.String()))
}
