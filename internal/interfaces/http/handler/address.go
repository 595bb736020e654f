package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	identityapp "github.com/mall/backend/internal/application/identity"
)

// AddressUseCases is the address application service as seen by the handler
type AddressUseCases interface {
	List(ctx context.Context, userID int64) (*identityapp.AddressListResponse, error)
	Create(ctx context.Context, userID int64, req identityapp.CreateAddressRequest) (*identityapp.AddressResponse, error)
	Delete(ctx context.Context, userID, addressID int64) error
}

// AddressHandler serves /addresses/
type AddressHandler struct {
	BaseHandler
	addresses AddressUseCases
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addresses AddressUseCases) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// List handles GET /addresses/
// @Summary      List addresses
// @Tags         addresses
// @Produce      json
// @Success      200 {object} identityapp.AddressListResponse
// @Failure      401 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /addresses/ [get]
func (h *AddressHandler) List(c *gin.Context) {
	resp, err := h.addresses.List(c.Request.Context(), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// Create handles POST /addresses/
// @Summary      Create an address
// @Description  Fails once the per-user limit is reached
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateAddressRequest true "Address"
// @Success      201 {object} identityapp.AddressResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      401 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /addresses/ [post]
func (h *AddressHandler) Create(c *gin.Context) {
	var req identityapp.CreateAddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.addresses.Create(c.Request.Context(), getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Delete handles DELETE /addresses/:id/
// @Summary      Delete an address
// @Description  The address is soft deleted
// @Tags         addresses
// @Produce      json
// @Param        id path int true "Address ID"
// @Success      204
// @Failure      400 {object} dto.ErrorBody
// @Failure      401 {object} dto.ErrorBody
// @Failure      404 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /addresses/{id}/ [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid address id")
		return
	}

	if err := h.addresses.Delete(c.Request.Context(), getUserID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
