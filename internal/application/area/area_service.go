package area

import (
	"context"
	"strconv"
	"time"

	"github.com/mall/backend/internal/domain/area"
	"github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	listCacheKey         = "areas:list"
	detailCacheKeyPrefix = "areas:detail:"
)

// ResponseCache keeps encoded read responses for a while
type ResponseCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// AreaService serves the province, city and district lookup that feeds the
// address form. Responses are cached; cache faults fall back to the database.
type AreaService struct {
	repo   area.AreaRepository
	cache  ResponseCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewAreaService creates a new AreaService. A nil cache disables caching.
func NewAreaService(repo area.AreaRepository, cache ResponseCache, ttl time.Duration, logger *zap.Logger) *AreaService {
	return &AreaService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// ListProvinces returns the top level of the tree
func (s *AreaService) ListProvinces(ctx context.Context) ([]AreaResponse, error) {
	var cached []AreaResponse
	if s.fromCache(ctx, listCacheKey, &cached) {
		return cached, nil
	}

	provinces, err := s.repo.ListProvinces(ctx)
	if err != nil {
		return nil, err
	}
	resp := toAreaResponses(provinces)
	s.toCache(ctx, listCacheKey, resp)
	return resp, nil
}

// Get returns an area with its direct subdivisions
func (s *AreaService) Get(ctx context.Context, id int64) (*AreaDetailResponse, error) {
	if id <= 0 {
		return nil, area.ErrAreaNotFound
	}
	key := detailCacheKeyPrefix + strconv.FormatInt(id, 10)

	var cached AreaDetailResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &AreaDetailResponse{ID: a.ID, Name: a.Name, Subs: toAreaResponses(subs)}
	s.toCache(ctx, key, resp)
	return resp, nil
}

func (s *AreaService) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		logger.Ctx(ctx, s.logger).Warn("Area cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *AreaService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		logger.Ctx(ctx, s.logger).Warn("Area cache write failed", zap.String("key", key), zap.Error(err))
	}
}
