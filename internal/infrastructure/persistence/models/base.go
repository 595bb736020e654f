package models

import (
	"time"

	"github.com/mall/backend/internal/domain/shared"
)

// TimestampModel provides the audit columns shared by all mall tables
type TimestampModel struct {
	CreateTime time.Time `gorm:"column:create_time;not null;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;not null;autoUpdateTime"`
}

// BaseModel is the persistence counterpart of shared.BaseEntity
type BaseModel struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`
	TimestampModel
}

// ToDomain converts BaseModel to the domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreateTime,
		UpdatedAt: m.UpdateTime,
	}
}

// FromDomainBaseEntity populates BaseModel from a domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreateTime = e.CreatedAt
	m.UpdateTime = e.UpdatedAt
}
