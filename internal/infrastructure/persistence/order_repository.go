package persistence

import (
	"context"
	"errors"

	"github.com/mall/backend/internal/domain/trade"
	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order shell. Lines are written separately through
// GormOrderGoodsRepository once their stock has been claimed.
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.OrderInfo) error {
	model := models.OrderInfoModelFromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return trade.ErrDuplicateOrder.WithCause(err)
		}
		return err
	}
	order.CreatedAt = model.CreateTime
	return nil
}

// UpdateTotals persists the accumulated count and amount
func (r *GormOrderRepository) UpdateTotals(ctx context.Context, order *trade.OrderInfo) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderInfoModel{}).
		Where("order_id = ?", order.OrderID).
		Updates(map[string]any{
			"total_count":  order.TotalCount,
			"total_amount": order.TotalAmount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return trade.ErrOrderNotFound
	}
	return nil
}

// FindByOrderID returns the order header; lines are loaded through
// GormOrderGoodsRepository
func (r *GormOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*trade.OrderInfo, error) {
	return r.find(ctx, "order_id = ?", orderID)
}

// FindForUser returns the order only when it belongs to userID
func (r *GormOrderRepository) FindForUser(ctx context.Context, orderID string, userID int64) (*trade.OrderInfo, error) {
	return r.find(ctx, "order_id = ? AND user_id = ?", orderID, userID)
}

func (r *GormOrderRepository) find(ctx context.Context, where string, args ...any) (*trade.OrderInfo, error) {
	var model models.OrderInfoModel
	if err := r.db.WithContext(ctx).Where(where, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateStatus is a conditional status transition:
//
//	UPDATE tb_orders SET status = :to WHERE order_id = ? AND status = :from
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to trade.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderInfoModel{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GormOrderGoodsRepository implements trade.OrderGoodsRepository using GORM
type GormOrderGoodsRepository struct {
	db *gorm.DB
}

// NewGormOrderGoodsRepository creates a new GormOrderGoodsRepository
func NewGormOrderGoodsRepository(db *gorm.DB) *GormOrderGoodsRepository {
	return &GormOrderGoodsRepository{db: db}
}

// Create inserts one order line and sets its generated ID
func (r *GormOrderGoodsRepository) Create(ctx context.Context, line *trade.OrderGoods) error {
	model := models.OrderGoodsModelFromDomain(line)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	line.ID = model.ID
	return nil
}

// FindByOrderID lists the lines of an order in insertion order
func (r *GormOrderGoodsRepository) FindByOrderID(ctx context.Context, orderID string) ([]*trade.OrderGoods, error) {
	var rows []models.OrderGoodsModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]*trade.OrderGoods, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
	}
	return lines, nil
}

// GormPaymentRepository implements trade.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create records a confirmed payment. A replayed trade id is rejected.
func (r *GormPaymentRepository) Create(ctx context.Context, payment *trade.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return trade.ErrPaymentRecorded.WithCause(err)
		}
		return err
	}
	payment.ID = model.ID
	payment.CreatedAt = model.CreateTime
	return nil
}

var (
	_ trade.OrderRepository      = (*GormOrderRepository)(nil)
	_ trade.OrderGoodsRepository = (*GormOrderGoodsRepository)(nil)
	_ trade.PaymentRepository    = (*GormPaymentRepository)(nil)
)
