package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/mall/backend/internal/application/catalog"
)

// SKULister lists launched SKUs of a category
type SKULister interface {
	ListByCategory(ctx context.Context, categoryID int64, q catalogapp.ListSKUsQuery) (*catalogapp.SKUPage, error)
}

// SKUHandler serves the category listing
type SKUHandler struct {
	BaseHandler
	skus SKULister
}

// NewSKUHandler creates a new SKUHandler
func NewSKUHandler(skus SKULister) *SKUHandler {
	return &SKUHandler{skus: skus}
}

// ListByCategory handles GET /categories/:category_id/skus/
// @Summary      List launched SKUs of a category
// @Tags         skus
// @Produce      json
// @Param        category_id path int true "Category ID"
// @Param        page query int false "Page number" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Param        ordering query string false "Sort field" Enums(create_time, -create_time, price, -price, sales, -sales)
// @Success      200 {object} catalogapp.SKUPage
// @Failure      400 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Router       /categories/{category_id}/skus/ [get]
func (h *SKUHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		h.BadRequest(c, "Invalid category id")
		return
	}
	var q catalogapp.ListSKUsQuery
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.skus.ListByCategory(c.Request.Context(), categoryID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, page)
}
