// Package integration runs the checkout against a real PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated database in its own container
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewTestDB starts PostgreSQL, applies the migrations and terminates the
// container when the test ends. Tests calling it are skipped with -short.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("mall_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("mall123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = sqlDB.Close() })

	runMigrations(t, sqlDB)
	return &TestDB{DB: db, SqlDB: sqlDB, t: t}
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	path := findMigrationsPath()
	require.NotEmpty(t, path, "Could not find migrations directory")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "Failed to create migration driver")
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	require.NoError(t, err, "Failed to create migrate instance")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err, "Failed to run migrations")
	}
}

// findMigrationsPath walks up from this file to the repository's migrations directory
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	dir := filepath.Dir(filename)
	for range 5 {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// SeedUser inserts an active account and one delivery address, returning both ids
func (tdb *TestDB) SeedUser(n int) (userID, addressID int64) {
	tdb.t.Helper()

	err := tdb.DB.Raw(`
		INSERT INTO tb_users (username, password, mobile)
		VALUES (?, 'unused', ?) RETURNING id`,
		fmt.Sprintf("shopper%03d", n), fmt.Sprintf("138%08d", n),
	).Scan(&userID).Error
	require.NoError(tdb.t, err, "Failed to seed user")

	err = tdb.DB.Raw(`
		INSERT INTO tb_address (user_id, title, receiver, province, city, district, place, mobile)
		VALUES (?, 'home', 'receiver', 'p', 'c', 'd', 'place', ?) RETURNING id`,
		userID, fmt.Sprintf("138%08d", n),
	).Scan(&addressID).Error
	require.NoError(tdb.t, err, "Failed to seed address")
	return userID, addressID
}

// SeedSKU inserts a launched SKU under a fresh goods row
func (tdb *TestDB) SeedSKU(name string, price decimal.Decimal, stock int) int64 {
	tdb.t.Helper()

	var goodsID, skuID int64
	require.NoError(tdb.t, tdb.DB.Raw(`INSERT INTO tb_goods (name) VALUES (?) RETURNING id`, name).Scan(&goodsID).Error)
	err := tdb.DB.Raw(`
		INSERT INTO tb_sku (goods_id, category_id, name, price, cost_price, market_price, stock)
		VALUES (?, 115, ?, ?, ?, ?, ?) RETURNING id`,
		goodsID, name, price, price, price, stock,
	).Scan(&skuID).Error
	require.NoError(tdb.t, err, "Failed to seed sku")
	return skuID
}

// StockAndSales reads the current counters of a SKU and its goods
func (tdb *TestDB) StockAndSales(skuID int64) (stock, skuSales, goodsSales int) {
	tdb.t.Helper()

	row := tdb.SqlDB.QueryRow(`
		SELECT s.stock, s.sales, g.sales FROM tb_sku s JOIN tb_goods g ON g.id = s.goods_id WHERE s.id = $1`, skuID)
	require.NoError(tdb.t, row.Scan(&stock, &skuSales, &goodsSales))
	return stock, skuSales, goodsSales
}
