package models

import (
	"github.com/mall/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderInfoModel is the persistence model for the order aggregate root.
// The business order id is the primary key, so a second order by the same
// user within the same second fails on insert.
type OrderInfoModel struct {
	OrderID     string            `gorm:"column:order_id;type:varchar(64);primaryKey"`
	UserID      int64             `gorm:"not null;index"`
	AddressID   int64             `gorm:"column:address_id;not null"`
	TotalCount  int               `gorm:"not null;default:1"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	Freight     decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	PayMethod   trade.PayMethod   `gorm:"type:smallint;not null;default:1"`
	Status      trade.OrderStatus `gorm:"type:smallint;not null;default:1;index"`
	TimestampModel
}

// TableName returns the table name for GORM
func (OrderInfoModel) TableName() string {
	return "tb_orders"
}

// ToDomain converts the model to a domain order without its lines
func (m *OrderInfoModel) ToDomain() *trade.OrderInfo {
	return &trade.OrderInfo{
		OrderID:     m.OrderID,
		UserID:      m.UserID,
		AddressID:   m.AddressID,
		TotalCount:  m.TotalCount,
		TotalAmount: m.TotalAmount,
		Freight:     m.Freight,
		PayMethod:   m.PayMethod,
		Status:      m.Status,
		CreatedAt:   m.CreateTime,
		UpdatedAt:   m.UpdateTime,
	}
}

// OrderInfoModelFromDomain creates a model from a domain order
func OrderInfoModelFromDomain(o *trade.OrderInfo) *OrderInfoModel {
	return &OrderInfoModel{
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		AddressID:   o.AddressID,
		TotalCount:  o.TotalCount,
		TotalAmount: o.TotalAmount,
		Freight:     o.Freight,
		PayMethod:   o.PayMethod,
		Status:      o.Status,
		TimestampModel: TimestampModel{
			CreateTime: o.CreatedAt,
			UpdateTime: o.UpdatedAt,
		},
	}
}

// OrderGoodsModel is the persistence model for an order line
type OrderGoodsModel struct {
	BaseModel
	OrderID     string          `gorm:"column:order_id;type:varchar(64);not null;index"`
	SKUID       int64           `gorm:"column:sku_id;not null"`
	Count       int             `gorm:"not null;default:1"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Comment     string          `gorm:"type:text;not null;default:''"`
	Score       int             `gorm:"type:smallint;not null;default:5"`
	IsAnonymous bool            `gorm:"not null;default:false"`
	IsCommented bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OrderGoodsModel) TableName() string {
	return "tb_order_goods"
}

// ToDomain converts the model to a domain order line
func (m *OrderGoodsModel) ToDomain() *trade.OrderGoods {
	return &trade.OrderGoods{
		ID:          m.ID,
		OrderID:     m.OrderID,
		SKUID:       m.SKUID,
		Count:       m.Count,
		Price:       m.Price,
		Comment:     m.Comment,
		Score:       m.Score,
		IsAnonymous: m.IsAnonymous,
		IsCommented: m.IsCommented,
		CreatedAt:   m.CreateTime,
	}
}

// OrderGoodsModelFromDomain creates a model from a domain order line
func OrderGoodsModelFromDomain(l *trade.OrderGoods) *OrderGoodsModel {
	return &OrderGoodsModel{
		BaseModel: BaseModel{
			ID:             l.ID,
			TimestampModel: TimestampModel{CreateTime: l.CreatedAt, UpdateTime: l.CreatedAt},
		},
		OrderID:     l.OrderID,
		SKUID:       l.SKUID,
		Count:       l.Count,
		Price:       l.Price,
		Comment:     l.Comment,
		Score:       l.Score,
		IsAnonymous: l.IsAnonymous,
		IsCommented: l.IsCommented,
	}
}

// PaymentModel records a confirmed Alipay trade for an order
type PaymentModel struct {
	BaseModel
	OrderID string `gorm:"column:order_id;type:varchar(64);not null;index"`
	TradeID string `gorm:"column:trade_id;type:varchar(100);uniqueIndex"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "tb_payment"
}

// PaymentModelFromDomain creates a model from a domain payment
func PaymentModelFromDomain(p *trade.Payment) *PaymentModel {
	return &PaymentModel{
		BaseModel: BaseModel{
			ID:             p.ID,
			TimestampModel: TimestampModel{CreateTime: p.CreatedAt, UpdateTime: p.CreatedAt},
		},
		OrderID: p.OrderID,
		TradeID: p.TradeID,
	}
}
