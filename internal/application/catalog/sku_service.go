package catalog

import (
	"context"
	"strings"

	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ImageURLResolver turns a stored image key into a URL a browser can load
type ImageURLResolver interface {
	Resolve(ctx context.Context, key string) string
}

// PassthroughResolver returns keys unchanged
type PassthroughResolver struct{}

// Resolve returns key as is
func (PassthroughResolver) Resolve(_ context.Context, key string) string {
	return key
}

// SKUService serves the category listing
type SKUService struct {
	skuRepo  catalog.SKURepository
	resolver ImageURLResolver
	logger   *zap.Logger
}

// NewSKUService creates a new SKUService. A nil resolver leaves image keys untouched.
func NewSKUService(skuRepo catalog.SKURepository, resolver ImageURLResolver, logger *zap.Logger) *SKUService {
	if resolver == nil {
		resolver = PassthroughResolver{}
	}
	return &SKUService{skuRepo: skuRepo, resolver: resolver, logger: logger}
}

// ListByCategory lists launched SKUs of a category
func (s *SKUService) ListByCategory(ctx context.Context, categoryID int64, q ListSKUsQuery) (*SKUPage, error) {
	if categoryID <= 0 {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category id must be positive")
	}

	filter := catalog.SKUListFilter{
		Filter:     shared.DefaultFilter(),
		CategoryID: categoryID,
	}
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = min(q.PageSize, maxPageSize)
	} else {
		filter.PageSize = defaultPageSize
	}
	if q.Ordering != "" {
		filter.OrderBy = q.Ordering
		filter.OrderDir = "asc"
		if strings.HasPrefix(q.Ordering, "-") {
			filter.OrderDir = "desc"
		}
	}

	skus, total, err := s.skuRepo.ListLaunched(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list skus", zap.Int64("category_id", categoryID), zap.Error(err))
		return nil, err
	}

	results := make([]SKUResponse, len(skus))
	for i := range skus {
		results[i] = ToSKUResponse(&skus[i], s.resolver.Resolve(ctx, skus[i].DefaultImageURL))
	}
	return &SKUPage{Count: total, Results: results}, nil
}
