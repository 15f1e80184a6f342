package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// TableHandler serves the table and waiter views
type TableHandler struct {
	tableService *service.TableService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// List returns all tables
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tables retrieved successfully", tables)
}

// Available returns the free tables of the user's branch
func (h *TableHandler) Available(c *gin.Context) {
	tables, err := h.tableService.Available(c.Request.Context(), GetUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Available tables retrieved successfully", tables)
}

// OpenOrders returns the open table orders
func (h *TableHandler) OpenOrders(c *gin.Context) {
	orders, err := h.tableService.OpenTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Open tables retrieved successfully", orders)
}

// GetOrder returns one table order
func (h *TableHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, "Table order ID is required")
		return
	}

	order, err := h.tableService.GetTableOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Table order retrieved successfully", order)
}

// Seat opens a table order
func (h *TableHandler) Seat(c *gin.Context) {
	var req request.SeatTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.tableService.Seat(c.Request.Context(), GetUser(c), req.TableID, req.Guests)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Table seated", order)
}

// CreateOrder sends a round of items to an open table
func (h *TableHandler) CreateOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, "Table order ID is required")
		return
	}

	var req request.WaiterOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.WaiterItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.WaiterItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.tableService.CreateWaiterOrder(c.Request.Context(), GetUser(c), id, items, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order sent to the kitchen", order)
}

// Close closes a table order
func (h *TableHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.BadRequest(c, "Table order ID is required")
		return
	}

	order, err := h.tableService.CloseTable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Table closed", order)
}
