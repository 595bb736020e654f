package trade

import (
	"context"

	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/domain/trade"
)

// TransactionScope runs checkout work in a single database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is
// committed. A cancelled context aborts and rolls back as well.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to one transaction.
type TransactionalRepositories interface {
	// SKURepo returns the SKU repository; stock writes go through CompareAndSetStock
	SKURepo() catalog.SKURepository
	OrderRepo() trade.OrderRepository
	OrderGoodsRepo() trade.OrderGoodsRepository
	PaymentRepo() trade.PaymentRepository
}

// NoOpTransactionScope runs fn against plain repositories without a
// transaction. Tests use it with in-memory fakes.
type NoOpTransactionScope struct {
	skuRepo        catalog.SKURepository
	orderRepo      trade.OrderRepository
	orderGoodsRepo trade.OrderGoodsRepository
	paymentRepo    trade.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	skuRepo catalog.SKURepository,
	orderRepo trade.OrderRepository,
	orderGoodsRepo trade.OrderGoodsRepository,
	paymentRepo trade.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		skuRepo:        skuRepo,
		orderRepo:      orderRepo,
		orderGoodsRepo: orderGoodsRepo,
		paymentRepo:    paymentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s)
}

// SKURepo returns the SKU repository.
func (s *NoOpTransactionScope) SKURepo() catalog.SKURepository {
	return s.skuRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

// OrderGoodsRepo returns the order line repository.
func (s *NoOpTransactionScope) OrderGoodsRepo() trade.OrderGoodsRepository {
	return s.orderGoodsRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() trade.PaymentRepository {
	return s.paymentRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
