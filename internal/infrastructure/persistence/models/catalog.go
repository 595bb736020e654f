package models

import (
	"github.com/mall/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// SKUModel is the persistence model for a sellable SKU
type SKUModel struct {
	BaseModel
	GoodsID         int64           `gorm:"not null;index"`
	CategoryID      int64           `gorm:"not null;index"`
	Name            string          `gorm:"type:varchar(50);not null"`
	Caption         string          `gorm:"type:varchar(100);not null;default:''"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MarketPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock           int             `gorm:"not null;default:0"`
	Sales           int             `gorm:"not null;default:0"`
	Comments        int             `gorm:"not null;default:0"`
	IsLaunched      bool            `gorm:"not null;default:true"`
	DefaultImageURL string          `gorm:"column:default_image_url;type:varchar(200);not null;default:''"`
}

// TableName returns the table name for GORM
func (SKUModel) TableName() string {
	return "tb_sku"
}

// ToDomain converts the model to a domain SKU
func (m *SKUModel) ToDomain() *catalog.SKU {
	return &catalog.SKU{
		BaseEntity:      m.BaseModel.ToDomain(),
		GoodsID:         m.GoodsID,
		CategoryID:      m.CategoryID,
		Name:            m.Name,
		Caption:         m.Caption,
		Price:           m.Price,
		CostPrice:       m.CostPrice,
		MarketPrice:     m.MarketPrice,
		Stock:           m.Stock,
		Sales:           m.Sales,
		Comments:        m.Comments,
		IsLaunched:      m.IsLaunched,
		DefaultImageURL: m.DefaultImageURL,
	}
}

// FromDomain populates the model from a domain SKU
func (m *SKUModel) FromDomain(s *catalog.SKU) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.GoodsID = s.GoodsID
	m.CategoryID = s.CategoryID
	m.Name = s.Name
	m.Caption = s.Caption
	m.Price = s.Price
	m.CostPrice = s.CostPrice
	m.MarketPrice = s.MarketPrice
	m.Stock = s.Stock
	m.Sales = s.Sales
	m.Comments = s.Comments
	m.IsLaunched = s.IsLaunched
	m.DefaultImageURL = s.DefaultImageURL
}

// SKUModelFromDomain creates a model from a domain SKU
func SKUModelFromDomain(s *catalog.SKU) *SKUModel {
	m := &SKUModel{}
	m.FromDomain(s)
	return m
}

// GoodsModel is the persistence model for the goods a SKU belongs to
type GoodsModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);not null"`
	Sales    int    `gorm:"not null;default:0"`
	Comments int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (GoodsModel) TableName() string {
	return "tb_goods"
}

// ToDomain converts the model to domain Goods
func (m *GoodsModel) ToDomain() *catalog.Goods {
	return &catalog.Goods{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Sales:      m.Sales,
		Comments:   m.Comments,
	}
}
