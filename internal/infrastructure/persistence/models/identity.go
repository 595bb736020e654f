package models

import (
	"time"

	"github.com/mall/backend/internal/domain/identity"
)

// UserModel is the persistence model for a shopper account
type UserModel struct {
	BaseModel
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password;type:varchar(128);not null"`
	Mobile       string     `gorm:"type:varchar(11);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(254);not null;default:''"`
	EmailActive  bool       `gorm:"not null;default:false"`
	IsActive     bool       `gorm:"not null;default:true"`
	LastLogin    *time.Time `gorm:"column:last_login"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "tb_users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Mobile:       m.Mobile,
		Email:        m.Email,
		EmailActive:  m.EmailActive,
		IsActive:     m.IsActive,
		LastLogin:    m.LastLogin,
	}
}

// UserModelFromDomain creates a model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Mobile:       u.Mobile,
		Email:        u.Email,
		EmailActive:  u.EmailActive,
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// AddressModel is the persistence model for a delivery address
type AddressModel struct {
	BaseModel
	UserID    int64  `gorm:"not null;index"`
	Title     string `gorm:"type:varchar(20);not null"`
	Receiver  string `gorm:"type:varchar(20);not null"`
	Province  string `gorm:"type:varchar(20);not null"`
	City      string `gorm:"type:varchar(20);not null"`
	District  string `gorm:"type:varchar(20);not null"`
	Place     string `gorm:"type:varchar(50);not null"`
	Mobile    string `gorm:"type:varchar(11);not null"`
	Tel       string `gorm:"type:varchar(20);not null;default:''"`
	Email     string `gorm:"type:varchar(30);not null;default:''"`
	IsDeleted bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "tb_address"
}

// ToDomain converts the model to a domain Address
func (m *AddressModel) ToDomain() *identity.Address {
	return &identity.Address{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Title:      m.Title,
		Receiver:   m.Receiver,
		Province:   m.Province,
		City:       m.City,
		District:   m.District,
		Place:      m.Place,
		Mobile:     m.Mobile,
		Tel:        m.Tel,
		Email:      m.Email,
		IsDeleted:  m.IsDeleted,
	}
}

// AddressModelFromDomain creates a model from a domain Address
func AddressModelFromDomain(a *identity.Address) *AddressModel {
	m := &AddressModel{
		UserID:    a.UserID,
		Title:     a.Title,
		Receiver:  a.Receiver,
		Province:  a.Province,
		City:      a.City,
		District:  a.District,
		Place:     a.Place,
		Mobile:    a.Mobile,
		Tel:       a.Tel,
		Email:     a.Email,
		IsDeleted: a.IsDeleted,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
