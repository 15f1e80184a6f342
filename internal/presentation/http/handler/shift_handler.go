package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// ShiftHandler handles cashier shifts
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Active returns the open shift, or null when none is open
func (h *ShiftHandler) Active(c *gin.Context) {
	shift, err := h.shiftService.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Active shift retrieved", shift)
}

// Start opens a shift
func (h *ShiftHandler) Start(c *gin.Context) {
	var req request.StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.InitialCash.IsNegative() {
		response.BadRequest(c, "Initial cash cannot be negative")
		return
	}

	shift, err := h.shiftService.Start(c.Request.Context(), GetUser(c), req.InitialCash)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Shift started", shift)
}

// End closes the open shift
func (h *ShiftHandler) End(c *gin.Context) {
	var req request.EndShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.FinalCash.IsNegative() {
		response.BadRequest(c, "Final cash cannot be negative")
		return
	}

	shift, err := h.shiftService.End(c.Request.Context(), req.FinalCash, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Shift ended", shift)
}
