package persistence

import (
	"testing"

	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSQLiteDB opens an in-memory SQLite database with the mall tables.
// A single connection keeps every statement on the same in-memory database.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.GoodsModel{},
		&models.SKUModel{},
		&models.OrderInfoModel{},
		&models.OrderGoodsModel{},
		&models.PaymentModel{},
		&models.UserModel{},
		&models.AddressModel{},
		&models.AreaModel{},
	))
	return db
}

func seedSKU(t *testing.T, db *gorm.DB, id, goodsID int64, price string, stock int) {
	t.Helper()

	require.NoError(t, db.Create(&models.GoodsModel{BaseModel: models.BaseModel{ID: goodsID}, Name: "goods"}).Error)
	require.NoError(t, db.Create(&models.SKUModel{
		BaseModel:   models.BaseModel{ID: id},
		GoodsID:     goodsID,
		CategoryID:  115,
		Name:        "sku",
		Price:       decimal.RequireFromString(price),
		CostPrice:   decimal.RequireFromString(price),
		MarketPrice: decimal.RequireFromString(price),
		Stock:       stock,
		IsLaunched:  true,
	}).Error)
}
