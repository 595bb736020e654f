package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	areaapp "github.com/mall/backend/internal/application/area"
	"github.com/mall/backend/internal/domain/area"
)

// AreaReader serves the administrative division lookup
type AreaReader interface {
	ListProvinces(ctx context.Context) ([]areaapp.AreaResponse, error)
	Get(ctx context.Context, id int64) (*areaapp.AreaDetailResponse, error)
}

// AreaHandler serves the province, city and district lookup
type AreaHandler struct {
	BaseHandler
	areas AreaReader
}

// NewAreaHandler creates a new AreaHandler
func NewAreaHandler(areas AreaReader) *AreaHandler {
	return &AreaHandler{areas: areas}
}

// List handles GET /areas/
// @Summary      List provinces
// @Tags         areas
// @Produce      json
// @Success      200 {array} areaapp.AreaResponse
// @Failure      500 {object} dto.ErrorBody
// @Router       /areas/ [get]
func (h *AreaHandler) List(c *gin.Context) {
	provinces, err := h.areas.ListProvinces(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, provinces)
}

// Get handles GET /areas/:id/
// @Summary      Area with its subdivisions
// @Tags         areas
// @Produce      json
// @Param        id path int true "Area ID"
// @Success      200 {object} areaapp.AreaDetailResponse
// @Failure      404 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Router       /areas/{id}/ [get]
func (h *AreaHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.HandleError(c, area.ErrAreaNotFound)
		return
	}
	detail, err := h.areas.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, detail)
}
