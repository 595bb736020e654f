package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	cartapp "github.com/mall/backend/internal/application/cart"
	"github.com/mall/backend/internal/interfaces/http/dto"
)

// CartUseCases is the cart application service as seen by the handler
type CartUseCases interface {
	List(ctx context.Context, h *cartapp.Holder) ([]cartapp.SKUItemResponse, error)
	Put(ctx context.Context, h *cartapp.Holder, req cartapp.PutItemRequest) (*cartapp.ItemResponse, error)
	Delete(ctx context.Context, h *cartapp.Holder, req cartapp.DeleteItemRequest) error
	SelectAll(ctx context.Context, h *cartapp.Holder, selected bool) error
}

// CartHandler serves /cart/ for both logged-in and anonymous shoppers.
// Logged-in carts live in the key-value store, anonymous ones in a cookie.
type CartHandler struct {
	BaseHandler
	carts  CartUseCases
	cookie CartCookie
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartUseCases, cookie CartCookie) *CartHandler {
	return &CartHandler{carts: carts, cookie: cookie}
}

// holder resolves whose cart the request addresses
func (h *CartHandler) holder(c *gin.Context) *cartapp.Holder {
	holder := &cartapp.Holder{UserID: getUserID(c)}
	if !holder.Authenticated() {
		holder.Cookie = h.cookie.Read(c)
	}
	return holder
}

// persist rewrites the cookie of an anonymous holder
func (h *CartHandler) persist(c *gin.Context, holder *cartapp.Holder) bool {
	if holder.Authenticated() {
		return true
	}
	if err := h.cookie.Write(c, holder.Cookie); err != nil {
		h.HandleError(c, err)
		return false
	}
	return true
}

// List handles GET /cart/
// @Summary      List cart lines
// @Description  Lines of the logged-in user's stored cart, or of the cart cookie when anonymous
// @Tags         cart
// @Produce      json
// @Success      200 {array} cartapp.SKUItemResponse
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /cart/ [get]
func (h *CartHandler) List(c *gin.Context) {
	items, err := h.carts.List(c.Request.Context(), h.holder(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, items)
}

// Add handles POST /cart/
// @Summary      Add a SKU to the cart
// @Description  Adds the count to any existing line. Anonymous carts are written back to the cookie.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.PutItemRequest true "Cart line"
// @Success      201 {object} cartapp.ItemResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /cart/ [post]
func (h *CartHandler) Add(c *gin.Context) {
	h.put(c, h.Created)
}

// Update handles PUT /cart/
// @Summary      Overwrite a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.PutItemRequest true "Cart line"
// @Success      200 {object} cartapp.ItemResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /cart/ [put]
func (h *CartHandler) Update(c *gin.Context) {
	h.put(c, h.OK)
}

func (h *CartHandler) put(c *gin.Context, respond func(*gin.Context, any)) {
	var req cartapp.PutItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	holder := h.holder(c)
	item, err := h.carts.Put(c.Request.Context(), holder, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.persist(c, holder) {
		return
	}
	respond(c, item)
}

// Delete handles DELETE /cart/
// @Summary      Remove a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.DeleteItemRequest true "SKU to remove"
// @Success      204
// @Failure      400 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /cart/ [delete]
func (h *CartHandler) Delete(c *gin.Context) {
	var req cartapp.DeleteItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	holder := h.holder(c)
	if err := h.carts.Delete(c.Request.Context(), holder, req); err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.persist(c, holder) {
		return
	}
	h.NoContent(c)
}

// Select handles PUT /cart/selection/
// @Summary      Select or clear every cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.SelectionRequest true "Selection flag"
// @Success      200 {object} dto.MessageResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /cart/selection/ [put]
func (h *CartHandler) Select(c *gin.Context) {
	var req cartapp.SelectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	holder := h.holder(c)
	if err := h.carts.SelectAll(c.Request.Context(), holder, *req.Selected); err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.persist(c, holder) {
		return
	}
	h.OK(c, dto.OK)
}
