package handler

import (
	"context"
	"net/url"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/mall/backend/internal/application/trade"
	"github.com/mall/backend/internal/domain/trade"
)

// OrderPlacer runs checkout
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, cmd tradeapp.PlaceOrderCommand) (*trade.OrderInfo, error)
}

// SettlementReader builds the settlement page
type SettlementReader interface {
	Get(ctx context.Context, userID int64) (*tradeapp.SettlementResponse, error)
}

// PaymentUseCases is the payment application service as seen by the handler
type PaymentUseCases interface {
	PaymentURL(ctx context.Context, orderID string, userID int64) (*tradeapp.PaymentURLResponse, error)
	ConfirmReturn(ctx context.Context, params url.Values) (*tradeapp.PaymentStatusResponse, error)
}

// OrderHandler serves settlement, checkout and payment
type OrderHandler struct {
	BaseHandler
	placer     OrderPlacer
	settlement SettlementReader
	payments   PaymentUseCases
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(placer OrderPlacer, settlement SettlementReader, payments PaymentUseCases) *OrderHandler {
	return &OrderHandler{placer: placer, settlement: settlement, payments: payments}
}

// Settlement handles GET /orders/settlement/
// @Summary      Settlement page
// @Description  Selected cart lines with current prices and the freight
// @Tags         orders
// @Produce      json
// @Success      200 {object} tradeapp.SettlementResponse
// @Failure      401 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /orders/settlement/ [get]
func (h *OrderHandler) Settlement(c *gin.Context) {
	resp, err := h.settlement.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// Create handles POST /orders/
// @Summary      Place an order
// @Description  Checks out the selected cart lines, reserving stock with compare-and-set retries
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.PlaceOrderRequest true "Address and pay method"
// @Success      201 {object} tradeapp.PlaceOrderResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      401 {object} dto.ErrorBody
// @Failure      409 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /orders/ [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.placer.PlaceOrder(c.Request.Context(), tradeapp.PlaceOrderCommand{
		UserID:    getUserID(c),
		AddressID: req.Address,
		PayMethod: trade.PayMethod(req.PayMethod),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tradeapp.PlaceOrderResponse{OrderID: order.OrderID})
}

// PaymentURL handles GET /orders/:order_id/payment/
// @Summary      Alipay payment URL
// @Tags         payment
// @Produce      json
// @Param        order_id path string true "Order ID"
// @Success      200 {object} tradeapp.PaymentURLResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      401 {object} dto.ErrorBody
// @Failure      503 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /orders/{order_id}/payment/ [get]
func (h *OrderHandler) PaymentURL(c *gin.Context) {
	resp, err := h.payments.PaymentURL(c.Request.Context(), c.Param("order_id"), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// ConfirmPayment handles PUT /payment/status/ with the gateway's return query
// @Summary      Confirm an Alipay return
// @Description  Verifies the signed return query and records the payment
// @Tags         payment
// @Produce      json
// @Param        out_trade_no query string true "Order ID"
// @Param        trade_no query string true "Alipay trade number"
// @Param        sign query string true "Gateway signature"
// @Success      200 {object} tradeapp.PaymentStatusResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      409 {object} dto.ErrorBody
// @Router       /payment/status/ [put]
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	resp, err := h.payments.ConfirmReturn(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}
