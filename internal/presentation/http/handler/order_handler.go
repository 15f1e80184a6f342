package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// OrderHandler serves the order history views
type OrderHandler struct {
	history *service.OrderHistory
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(history *service.OrderHistory) *OrderHandler {
	return &OrderHandler{history: history}
}

// List returns orders filtered by status, table order and date range
func (h *OrderHandler) List(c *gin.Context) {
	filter := posapi.ListOrdersFilter{
		TableOrderID: c.Query("tableOrderId"),
		From:         c.Query("from"),
		To:           c.Query("to"),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := enum.ParseOrderStatus(raw)
		if !ok {
			response.BadRequest(c, "Invalid order status")
			return
		}
		filter.Status = &status
	}

	orders, err := h.history.List(c.Request.Context(), GetUser(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Orders retrieved successfully", orders)
}

// Get returns one order
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, "Order ID is required")
		return
	}

	order, err := h.history.Get(c.Request.Context(), GetUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order retrieved successfully", order)
}
