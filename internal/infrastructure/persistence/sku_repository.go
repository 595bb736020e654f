package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSKURepository implements catalog.SKURepository using GORM
type GormSKURepository struct {
	db *gorm.DB
}

// NewGormSKURepository creates a new GormSKURepository
func NewGormSKURepository(db *gorm.DB) *GormSKURepository {
	return &GormSKURepository{db: db}
}

// FindByID returns the SKU or catalog.ErrSKUNotFound
func (r *GormSKURepository) FindByID(ctx context.Context, id int64) (*catalog.SKU, error) {
	var model models.SKUModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrSKUNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the SKUs that exist among ids. Missing ids are simply absent.
func (r *GormSKURepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*catalog.SKU, error) {
	result := make(map[int64]*catalog.SKU, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.SKUModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// ListLaunched lists launched SKUs of a category with pagination.
// OrderBy accepts a leading '-' for descending, as in "-price"; a bare
// field sorts ascending unless OrderDir says otherwise.
func (r *GormSKURepository) ListLaunched(ctx context.Context, filter catalog.SKUListFilter) ([]catalog.SKU, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SKUModel{}).
		Where("category_id = ? AND is_launched = ?", filter.CategoryID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	field, dir := filter.OrderBy, filter.OrderDir
	if strings.HasPrefix(field, "-") {
		field, dir = strings.TrimPrefix(field, "-"), "desc"
	} else if dir == "" {
		dir = "asc"
	}

	var rows []models.SKUModel
	err := query.Order(orderClause(field, dir, SKUSortFields, "create_time")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	skus := make([]catalog.SKU, len(rows))
	for i := range rows {
		skus[i] = *rows[i].ToDomain()
	}
	return skus, total, nil
}

// CompareAndSetStock issues
//
//	UPDATE tb_sku SET stock = ?, sales = ? WHERE id = ? AND stock = ?
//
// and reports whether the row matched. No row lock is taken: a concurrent
// writer that changed stock first makes this update affect zero rows.
func (r *GormSKURepository) CompareAndSetStock(ctx context.Context, id int64, expectedStock, newStock, newSales int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SKUModel{}).
		Where("id = ? AND stock = ?", id, expectedStock).
		Updates(map[string]any{
			"stock": newStock,
			"sales": newSales,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AddGoodsSales increments the goods-level sales counter in place
func (r *GormSKURepository) AddGoodsSales(ctx context.Context, goodsID int64, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.GoodsModel{}).
		Where("id = ?", goodsID).
		UpdateColumn("sales", gorm.Expr("sales + ?", delta)).Error
}

var _ catalog.SKURepository = (*GormSKURepository)(nil)
