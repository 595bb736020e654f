package persistence

import (
	"context"
	"testing"

	"github.com/mall/backend/internal/domain/area"
	"github.com/mall/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAreas(t *testing.T, db *gorm.DB) {
	t.Helper()
	guangdong, shenzhen := int64(440000), int64(440300)
	rows := []models.AreaModel{
		{ID: 110000, Name: "Beijing"},
		{ID: 440000, Name: "Guangdong"},
		{ID: 440300, Name: "Shenzhen", ParentID: &guangdong},
		{ID: 440100, Name: "Guangzhou", ParentID: &guangdong},
		{ID: 440305, Name: "Nanshan", ParentID: &shenzhen},
	}
	require.NoError(t, db.Create(&rows).Error)
}

func TestGormAreaRepository_ListProvinces(t *testing.T) {
	db := setupSQLiteDB(t)
	seedAreas(t, db)
	repo := NewGormAreaRepository(db)

	provinces, err := repo.ListProvinces(context.Background())
	require.NoError(t, err)
	require.Len(t, provinces, 2)
	assert.Equal(t, "Beijing", provinces[0].Name)
	assert.Equal(t, "Guangdong", provinces[1].Name)
	assert.True(t, provinces[1].IsProvince())
}

func TestGormAreaRepository_FindByIDAndChildren(t *testing.T) {
	db := setupSQLiteDB(t)
	seedAreas(t, db)
	repo := NewGormAreaRepository(db)
	ctx := context.Background()

	city, err := repo.FindByID(ctx, 440300)
	require.NoError(t, err)
	assert.Equal(t, "Shenzhen", city.Name)
	require.NotNil(t, city.ParentID)
	assert.Equal(t, int64(440000), *city.ParentID)

	cities, err := repo.ListChildren(ctx, 440000)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, int64(440100), cities[0].ID)
	assert.Equal(t, int64(440300), cities[1].ID)

	districts, err := repo.ListChildren(ctx, 440305)
	require.NoError(t, err)
	assert.Empty(t, districts)

	_, err = repo.FindByID(ctx, 999999)
	assert.ErrorIs(t, err, area.ErrAreaNotFound)
}
