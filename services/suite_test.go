package services_test

import (
	"testing"

	"pharmacrm-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database per test. The pool is
// pinned to one connection so every query sees the same sqlite memory file.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.MigrateAll(db))
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) models.User {
	t.Helper()
	user := models.User{Username: username, FullName: username, Role: role, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name, price, marketing string) models.Product {
	t.Helper()
	product := models.Product{
		Name:             name,
		Price:            dec(t, price),
		ProductionPrice:  dec(t, price),
		MarketingExpense: dec(t, marketing),
		IsActive:         true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedWarehouse(t *testing.T, db *gorm.DB, name string) models.Warehouse {
	t.Helper()
	warehouse := models.Warehouse{Name: name, WarehouseType: models.WarehouseCentral}
	require.NoError(t, db.Create(&warehouse).Error)
	return warehouse
}

func seedStock(t *testing.T, db *gorm.DB, warehouseID, productID uint, quantity int) models.Stock {
	t.Helper()
	stock := models.Stock{WarehouseID: warehouseID, ProductID: productID, Quantity: quantity}
	require.NoError(t, db.Create(&stock).Error)
	return stock
}

func stockQuantity(t *testing.T, db *gorm.DB, warehouseID, productID uint) int {
	t.Helper()
	var stock models.Stock
	require.NoError(t, db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&stock).Error)
	return stock.Quantity
}
