package cart

import (
	"context"

	catalogapp "github.com/mall/backend/internal/application/catalog"
	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CartService reads and writes carts for both anonymous and logged-in shoppers
type CartService struct {
	store    cart.Store
	skuRepo  catalog.SKURepository
	resolver catalogapp.ImageURLResolver
}

// NewCartService creates a new CartService
func NewCartService(store cart.Store, skuRepo catalog.SKURepository, resolver catalogapp.ImageURLResolver) *CartService {
	if resolver == nil {
		resolver = catalogapp.PassthroughResolver{}
	}
	return &CartService{store: store, skuRepo: skuRepo, resolver: resolver}
}

// List returns the holder's cart lines joined with SKU data, ordered by sku id.
// Lines whose SKU no longer exists are left out.
func (s *CartService) List(ctx context.Context, h *Holder) ([]SKUItemResponse, error) {
	c, err := s.load(ctx, h)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return []SKUItemResponse{}, nil
	}

	ids := c.SKUIDs()
	skus, err := s.skuRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.L(ctx).Error("Failed to load cart skus", zap.Error(err))
		return nil, err
	}

	items := make([]SKUItemResponse, 0, len(ids))
	for _, id := range ids {
		sku, ok := skus[id]
		if !ok {
			continue
		}
		e := c[id]
		items = append(items, SKUItemResponse{
			ID:              sku.ID,
			Name:            sku.Name,
			DefaultImageURL: s.resolver.Resolve(ctx, sku.DefaultImageURL),
			Price:           sku.Price,
			Count:           e.Count,
			Selected:        e.Selected,
		})
	}
	return items, nil
}

// Put overwrites the count and selection of one line. It serves both
// POST and PUT; neither adds to an existing count.
func (s *CartService) Put(ctx context.Context, h *Holder, req PutItemRequest) (*ItemResponse, error) {
	if req.Count < 1 {
		return nil, catalog.ErrInvalidCount
	}
	if err := s.ensureSKU(ctx, req.SKUID); err != nil {
		return nil, err
	}

	entry := cart.Entry{Count: req.Count, Selected: req.IsSelected()}
	if h.Authenticated() {
		if err := s.store.Set(ctx, h.UserID, req.SKUID, entry); err != nil {
			logger.L(ctx).Error("Failed to write cart entry", zap.Int64("sku_id", req.SKUID), zap.Error(err))
			return nil, err
		}
	} else {
		s.cookie(h).Set(req.SKUID, entry.Count, entry.Selected)
	}

	return &ItemResponse{SKUID: req.SKUID, Count: entry.Count, Selected: entry.Selected}, nil
}

// Delete removes one line. The sku must still exist in the catalog.
func (s *CartService) Delete(ctx context.Context, h *Holder, req DeleteItemRequest) error {
	if err := s.ensureSKU(ctx, req.SKUID); err != nil {
		return err
	}

	if !h.Authenticated() {
		s.cookie(h).Remove(req.SKUID)
		return nil
	}
	if err := s.store.Remove(ctx, h.UserID, req.SKUID); err != nil {
		logger.L(ctx).Error("Failed to remove cart entry", zap.Int64("sku_id", req.SKUID), zap.Error(err))
		return err
	}
	return nil
}

// SelectAll sets the selected flag on every line
func (s *CartService) SelectAll(ctx context.Context, h *Holder, selected bool) error {
	if !h.Authenticated() {
		s.cookie(h).SelectAll(selected)
		return nil
	}
	if err := s.store.SelectAll(ctx, h.UserID, selected); err != nil {
		logger.L(ctx).Error("Failed to update cart selection", zap.Error(err))
		return err
	}
	return nil
}

func (s *CartService) load(ctx context.Context, h *Holder) (cart.Cart, error) {
	if !h.Authenticated() {
		return s.cookie(h), nil
	}
	c, err := s.store.Get(ctx, h.UserID)
	if err != nil {
		logger.L(ctx).Error("Failed to read cart", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *CartService) ensureSKU(ctx context.Context, skuID int64) error {
	if skuID < 1 {
		return catalog.ErrSKUNotFound
	}
	_, err := s.skuRepo.FindByID(ctx, skuID)
	return err
}

func (s *CartService) cookie(h *Holder) cart.Cart {
	if h.Cookie == nil {
		h.Cookie = cart.New()
	}
	return h.Cookie
}
