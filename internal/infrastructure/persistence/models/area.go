package models

import "github.com/mall/backend/internal/domain/area"

// AreaModel is a row of the administrative division tree. The table is
// reference data, so it has no audit columns.
type AreaModel struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(20);not null"`
	ParentID *int64 `gorm:"index"`
}

// TableName returns the table name for GORM
func (AreaModel) TableName() string {
	return "tb_areas"
}

// ToDomain converts the model to a domain Area
func (m *AreaModel) ToDomain() area.Area {
	return area.Area{ID: m.ID, Name: m.Name, ParentID: m.ParentID}
}
