package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSKURepository is a mock implementation of catalog.SKURepository
type MockSKURepository struct {
	mock.Mock
}

func (m *MockSKURepository) FindByID(ctx context.Context, id int64) (*catalog.SKU, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*catalog.SKU, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) ListLaunched(ctx context.Context, filter catalog.SKUListFilter) ([]catalog.SKU, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.SKU), args.Get(1).(int64), args.Error(2)
}

func (m *MockSKURepository) CompareAndSetStock(ctx context.Context, id int64, expectedStock, newStock, newSales int) (bool, error) {
	args := m.Called(ctx, id, expectedStock, newStock, newSales)
	return args.Bool(0), args.Error(1)
}

func (m *MockSKURepository) AddGoodsSales(ctx context.Context, goodsID int64, delta int) error {
	args := m.Called(ctx, goodsID, delta)
	return args.Error(0)
}

type prefixResolver string

func (p prefixResolver) Resolve(_ context.Context, key string) string {
	return string(p) + key
}

func launchedSKU(id int64, price string, image string) catalog.SKU {
	return catalog.SKU{
		BaseEntity:      shared.BaseEntity{ID: id},
		Name:            "sku",
		Price:           decimal.RequireFromString(price),
		IsLaunched:      true,
		DefaultImageURL: image,
	}
}

func TestSKUService_ListByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and resolves images", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewSKUService(repo, prefixResolver("https://img/"), zap.NewNop())

		repo.On("ListLaunched", ctx, mock.MatchedBy(func(f catalog.SKUListFilter) bool {
			return f.CategoryID == 115 && f.Page == 1 && f.PageSize == defaultPageSize && f.OrderBy == "create_time"
		})).Return([]catalog.SKU{launchedSKU(1, "3788.00", "group1/M00/a.jpg")}, int64(1), nil)

		page, err := svc.ListByCategory(ctx, 115, ListSKUsQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Count)
		require.Len(t, page.Results, 1)
		assert.Equal(t, "https://img/group1/M00/a.jpg", page.Results[0].DefaultImageURL)
		assert.True(t, decimal.RequireFromString("3788").Equal(page.Results[0].Price))
		repo.AssertExpectations(t)
	})

	t.Run("descending ordering and capped page size", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewSKUService(repo, nil, zap.NewNop())

		repo.On("ListLaunched", ctx, mock.MatchedBy(func(f catalog.SKUListFilter) bool {
			return f.OrderBy == "-price" && f.OrderDir == "desc" && f.PageSize == maxPageSize && f.Page == 3
		})).Return([]catalog.SKU{}, int64(0), nil)

		page, err := svc.ListByCategory(ctx, 1, ListSKUsQuery{Page: 3, PageSize: 500, Ordering: "-price"})
		require.NoError(t, err)
		assert.Empty(t, page.Results)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a non-positive category", func(t *testing.T) {
		svc := NewSKUService(new(MockSKURepository), nil, zap.NewNop())
		_, err := svc.ListByCategory(ctx, 0, ListSKUsQuery{})
		assert.Error(t, err)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewSKUService(repo, nil, zap.NewNop())
		repo.On("ListLaunched", ctx, mock.Anything).Return(nil, int64(0), errors.New("db down"))

		_, err := svc.ListByCategory(ctx, 1, ListSKUsQuery{})
		assert.EqualError(t, err, "db down")
	})
}
