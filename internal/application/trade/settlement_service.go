package trade

import (
	"context"

	catalogapp "github.com/mall/backend/internal/application/catalog"
	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SettlementService previews what a checkout would contain
type SettlementService struct {
	carts    cart.Store
	skuRepo  catalog.SKURepository
	resolver catalogapp.ImageURLResolver
	cfg      config.OrderConfig
	logger   *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	carts cart.Store,
	skuRepo catalog.SKURepository,
	resolver catalogapp.ImageURLResolver,
	cfg config.OrderConfig,
	logger *zap.Logger,
) *SettlementService {
	if resolver == nil {
		resolver = catalogapp.PassthroughResolver{}
	}
	return &SettlementService{carts: carts, skuRepo: skuRepo, resolver: resolver, cfg: cfg, logger: logger}
}

// Get returns the freight and the selected cart lines with current prices.
// Selected skus that no longer exist are skipped.
func (s *SettlementService) Get(ctx context.Context, userID int64) (*SettlementResponse, error) {
	counts, err := s.carts.Selected(ctx, userID)
	if err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to read selected cart", zap.Error(err))
		return nil, err
	}

	resp := &SettlementResponse{Freight: s.cfg.Freight, SKUs: []SettlementSKU{}}
	if len(counts) == 0 {
		return resp, nil
	}

	selected := cart.New()
	for id, n := range counts {
		selected.Set(id, n, true)
	}
	ids := selected.SKUIDs()

	skus, err := s.skuRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to load settlement skus", zap.Error(err))
		return nil, err
	}
	for _, id := range ids {
		sku, ok := skus[id]
		if !ok {
			continue
		}
		resp.SKUs = append(resp.SKUs, SettlementSKU{
			ID:              sku.ID,
			Name:            sku.Name,
			DefaultImageURL: s.resolver.Resolve(ctx, sku.DefaultImageURL),
			Price:           sku.Price,
			Count:           counts[id],
		})
	}
	return resp, nil
}
