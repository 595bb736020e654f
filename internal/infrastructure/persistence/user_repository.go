package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/mall/backend/internal/domain/identity"
	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a user and sets its generated ID
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return identity.ErrAccountExists.WithCause(err)
		}
		return err
	}
	user.ID = model.ID
	return nil
}

// FindByID finds an active user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByAccount looks the user up by mobile when the account looks like
// one, otherwise by username.
func (r *GormUserRepository) FindByAccount(ctx context.Context, account string) (*identity.User, error) {
	if identity.IsMobile(account) {
		return r.findOne(ctx, "mobile = ?", account)
	}
	return r.findOne(ctx, "username = ?", account)
}

func (r *GormUserRepository) findOne(ctx context.Context, where string, args ...any) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).Where(where, args...).Where("is_active = ?", true).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountByUsername counts users with the given username
func (r *GormUserRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error
	return count, err
}

// CountByMobile counts users with the given mobile
func (r *GormUserRepository) CountByMobile(ctx context.Context, mobile string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("mobile = ?", mobile).Count(&count).Error
	return count, err
}

// UpdateLastLogin stamps last_login without touching other columns
func (r *GormUserRepository) UpdateLastLogin(ctx context.Context, user *identity.User) error {
	at := time.Now()
	if user.LastLogin != nil {
		at = *user.LastLogin
	}
	return r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		UpdateColumn("last_login", at).Error
}

// GormAddressRepository implements identity.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Create inserts an address and sets its generated ID
func (r *GormAddressRepository) Create(ctx context.Context, address *identity.Address) error {
	model := models.AddressModelFromDomain(address)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	address.ID = model.ID
	return nil
}

// FindByIDForUser returns a live address owned by userID
func (r *GormAddressRepository) FindByIDForUser(ctx context.Context, id, userID int64) (*identity.Address, error) {
	var model models.AddressModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrAddressNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByUser lists live addresses, most recently updated first
func (r *GormAddressRepository) ListByUser(ctx context.Context, userID int64) ([]*identity.Address, error) {
	var rows []models.AddressModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("update_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	addresses := make([]*identity.Address, len(rows))
	for i := range rows {
		addresses[i] = rows[i].ToDomain()
	}
	return addresses, nil
}

// CountByUser counts live addresses
func (r *GormAddressRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AddressModel{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	return count, err
}

// SoftDelete marks the address deleted; deleting someone else's address or
// an already deleted one is reported as not found.
func (r *GormAddressRepository) SoftDelete(ctx context.Context, id, userID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.AddressModel{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identity.ErrAddressNotFound
	}
	return nil
}

var (
	_ identity.UserRepository    = (*GormUserRepository)(nil)
	_ identity.AddressRepository = (*GormAddressRepository)(nil)
)
