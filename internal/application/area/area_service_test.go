package area

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mall/backend/internal/domain/area"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAreaRepository is a mock implementation of area.AreaRepository
type MockAreaRepository struct {
	mock.Mock
}

func (m *MockAreaRepository) ListProvinces(ctx context.Context) ([]area.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]area.Area), args.Error(1)
}

func (m *MockAreaRepository) FindByID(ctx context.Context, id int64) (*area.Area, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*area.Area), args.Error(1)
}

func (m *MockAreaRepository) ListChildren(ctx context.Context, parentID int64) ([]area.Area, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]area.Area), args.Error(1)
}

// memCache keeps JSON like the Redis cache does
type memCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	err     error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (c *memCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	c.ttls[key] = ttl
	return nil
}

var guangdong = int64(440000)

func TestAreaService_ListProvinces(t *testing.T) {
	ctx := context.Background()
	provinces := []area.Area{{ID: 110000, Name: "Beijing"}, {ID: 440000, Name: "Guangdong"}}

	t.Run("second call is served from the cache", func(t *testing.T) {
		repo := new(MockAreaRepository)
		cache := newMemCache()
		svc := NewAreaService(repo, cache, 24*time.Hour, zap.NewNop())
		repo.On("ListProvinces", ctx).Return(provinces, nil).Once()

		first, err := svc.ListProvinces(ctx)
		require.NoError(t, err)
		second, err := svc.ListProvinces(ctx)
		require.NoError(t, err)

		assert.Equal(t, []AreaResponse{{ID: 110000, Name: "Beijing"}, {ID: 440000, Name: "Guangdong"}}, first)
		assert.Equal(t, first, second)
		assert.Equal(t, 24*time.Hour, cache.ttls[listCacheKey])
		repo.AssertNumberOfCalls(t, "ListProvinces", 1)
	})

	t.Run("a broken cache falls back to the database", func(t *testing.T) {
		repo := new(MockAreaRepository)
		cache := newMemCache()
		cache.err = errors.New("connection refused")
		svc := NewAreaService(repo, cache, time.Hour, zap.NewNop())
		repo.On("ListProvinces", ctx).Return(provinces, nil)

		got, err := svc.ListProvinces(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("repository errors surface", func(t *testing.T) {
		repo := new(MockAreaRepository)
		svc := NewAreaService(repo, nil, time.Hour, zap.NewNop())
		repo.On("ListProvinces", ctx).Return(nil, errors.New("db down"))

		_, err := svc.ListProvinces(ctx)
		assert.Error(t, err)
	})
}

func TestAreaService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the subdivisions and caches them", func(t *testing.T) {
		repo := new(MockAreaRepository)
		cache := newMemCache()
		svc := NewAreaService(repo, cache, time.Hour, zap.NewNop())
		repo.On("FindByID", ctx, int64(440000)).Return(&area.Area{ID: 440000, Name: "Guangdong"}, nil).Once()
		repo.On("ListChildren", ctx, int64(440000)).Return([]area.Area{
			{ID: 440100, Name: "Guangzhou", ParentID: &guangdong},
			{ID: 440300, Name: "Shenzhen", ParentID: &guangdong},
		}, nil).Once()

		got, err := svc.Get(ctx, 440000)
		require.NoError(t, err)
		assert.Equal(t, "Guangdong", got.Name)
		require.Len(t, got.Subs, 2)
		assert.Equal(t, AreaResponse{ID: 440300, Name: "Shenzhen"}, got.Subs[1])
		assert.Contains(t, cache.entries, "areas:detail:440000")

		again, err := svc.Get(ctx, 440000)
		require.NoError(t, err)
		assert.Equal(t, got, again)
		repo.AssertExpectations(t)
	})

	t.Run("a leaf has an empty subs list", func(t *testing.T) {
		repo := new(MockAreaRepository)
		svc := NewAreaService(repo, nil, time.Hour, zap.NewNop())
		repo.On("FindByID", ctx, int64(440305)).Return(&area.Area{ID: 440305, Name: "Nanshan"}, nil)
		repo.On("ListChildren", ctx, int64(440305)).Return([]area.Area{}, nil)

		got, err := svc.Get(ctx, 440305)
		require.NoError(t, err)
		assert.NotNil(t, got.Subs)
		assert.Empty(t, got.Subs)
	})

	t.Run("unknown area", func(t *testing.T) {
		repo := new(MockAreaRepository)
		svc := NewAreaService(repo, newMemCache(), time.Hour, zap.NewNop())
		repo.On("FindByID", ctx, int64(1)).Return(nil, area.ErrAreaNotFound)

		_, err := svc.Get(ctx, 1)
		assert.ErrorIs(t, err, area.ErrAreaNotFound)

		_, err = svc.Get(ctx, 0)
		assert.ErrorIs(t, err, area.ErrAreaNotFound)
		repo.AssertNotCalled(t, "FindByID", ctx, int64(0))
	})
}
