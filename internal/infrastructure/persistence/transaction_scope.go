package persistence

import (
	"context"

	apptrade "github.com/mall/backend/internal/application/trade"
	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements apptrade.TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction bound to ctx.
// If fn returns an error, or ctx is cancelled, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories sharing one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) SKURepo() catalog.SKURepository {
	return NewGormSKURepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderGoodsRepo() trade.OrderGoodsRepository {
	return NewGormOrderGoodsRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentRepo() trade.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

var (
	_ apptrade.TransactionScope          = (*GormTransactionScope)(nil)
	_ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
