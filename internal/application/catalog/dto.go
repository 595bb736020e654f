package catalog

import (
	"github.com/mall/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ListSKUsQuery represents the category listing query string
type ListSKUsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Ordering string `form:"ordering" binding:"omitempty,oneof=create_time -create_time price -price sales -sales"`
}

// SKUResponse represents a SKU in listing responses
type SKUResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DefaultImageURL string          `json:"default_image_url"`
	Comments        int             `json:"comments"`
}

// SKUPage is the paginated listing body
type SKUPage struct {
	Count   int64         `json:"count"`
	Results []SKUResponse `json:"results"`
}

// ToSKUResponse converts a domain SKU, resolving its image key to a URL
func ToSKUResponse(sku *catalog.SKU, imageURL string) SKUResponse {
	return SKUResponse{
		ID:              sku.ID,
		Name:            sku.Name,
		Price:           sku.Price,
		DefaultImageURL: imageURL,
		Comments:        sku.Comments,
	}
}
