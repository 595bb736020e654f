package persistence

import (
	"context"
	"errors"

	"github.com/mall/backend/internal/domain/area"
	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAreaRepository implements area.AreaRepository using GORM
type GormAreaRepository struct {
	db *gorm.DB
}

// NewGormAreaRepository creates a new GormAreaRepository
func NewGormAreaRepository(db *gorm.DB) *GormAreaRepository {
	return &GormAreaRepository{db: db}
}

// ListProvinces returns the roots of the tree ordered by id
func (r *GormAreaRepository) ListProvinces(ctx context.Context) ([]area.Area, error) {
	return r.list(r.db.WithContext(ctx).Where("parent_id IS NULL"))
}

// FindByID returns the area or area.ErrAreaNotFound
func (r *GormAreaRepository) FindByID(ctx context.Context, id int64) (*area.Area, error) {
	var model models.AreaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, area.ErrAreaNotFound
		}
		return nil, err
	}
	a := model.ToDomain()
	return &a, nil
}

// ListChildren returns the direct subdivisions of parentID ordered by id
func (r *GormAreaRepository) ListChildren(ctx context.Context, parentID int64) ([]area.Area, error) {
	return r.list(r.db.WithContext(ctx).Where("parent_id = ?", parentID))
}

func (r *GormAreaRepository) list(query *gorm.DB) ([]area.Area, error) {
	var rows []models.AreaModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	areas := make([]area.Area, len(rows))
	for i := range rows {
		areas[i] = rows[i].ToDomain()
	}
	return areas, nil
}

var _ area.AreaRepository = (*GormAreaRepository)(nil)
