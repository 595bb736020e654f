package cart

import (
	"github.com/mall/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// Holder identifies whose cart a request touches. A positive UserID selects
// the key-value store, otherwise Cookie is read and rewritten in place.
type Holder struct {
	UserID int64
	Cookie cart.Cart
}

// Authenticated reports whether the holder is a logged-in user
func (h *Holder) Authenticated() bool {
	return h.UserID > 0
}

// PutItemRequest is the body of POST and PUT /cart/
type PutItemRequest struct {
	SKUID    int64 `json:"sku_id" binding:"required,min=1"`
	Count    int   `json:"count" binding:"required,min=1"`
	Selected *bool `json:"selected"`
}

// IsSelected returns the selected flag, true when omitted
func (r PutItemRequest) IsSelected() bool {
	return r.Selected == nil || *r.Selected
}

// DeleteItemRequest is the body of DELETE /cart/
type DeleteItemRequest struct {
	SKUID int64 `json:"sku_id" binding:"required,min=1"`
}

// SelectionRequest is the body of PUT /cart/selection/
type SelectionRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// ItemResponse echoes a written cart line
type ItemResponse struct {
	SKUID    int64 `json:"sku_id"`
	Count    int   `json:"count"`
	Selected bool  `json:"selected"`
}

// SKUItemResponse is a cart line joined with its SKU
type SKUItemResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	DefaultImageURL string          `json:"default_image_url"`
	Price           decimal.Decimal `json:"price"`
	Count           int             `json:"count"`
	Selected        bool            `json:"selected"`
}
