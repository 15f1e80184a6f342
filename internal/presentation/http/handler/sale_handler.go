package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// SaleHandler exposes the cashier's sale workflow
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Get returns the current sale of the session
// @Summary Current sale
// @Tags sale
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /sale [get]
func (h *SaleHandler) Get(c *gin.Context) {
	response.OK(c, "Sale retrieved successfully", h.saleService.GetSale(c.Request.Context(), GetActor(c)))
}

// AddItem adds one unit of a product, by id or barcode
// @Summary Add item
// @Tags sale
// @Accept json
// @Produce json
// @Param request body request.AddItemRequest true "Product"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sale/items [post]
func (h *SaleHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Provide a productId or a barcode")
		return
	}

	ctx := c.Request.Context()
	var (
		sale *entity.Sale
		err  error
	)
	if req.Barcode != "" {
		sale, err = h.saleService.AddToCartByBarcode(ctx, GetActor(c), req.Barcode)
	} else {
		sale, err = h.saleService.AddToCart(ctx, GetActor(c), req.ProductID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", sale)
}

// UpdateQuantity sets the quantity of a cart line
func (h *SaleHandler) UpdateQuantity(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		response.BadRequest(c, "Product ID is required")
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.UpdateQuantity(c.Request.Context(), GetActor(c), productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", sale)
}

// RemoveItem removes a cart line
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		response.BadRequest(c, "Product ID is required")
		return
	}

	sale, err := h.saleService.RemoveFromCart(c.Request.Context(), GetActor(c), productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", sale)
}

// SelectCustomer sets or clears the customer
func (h *SaleHandler) SelectCustomer(c *gin.Context) {
	var req request.SelectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.SelectCustomer(c.Request.Context(), GetActor(c), req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer updated", sale)
}

// SelectPaymentMethod sets the payment method
func (h *SaleHandler) SelectPaymentMethod(c *gin.Context) {
	var req request.SelectPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.SelectPaymentMethod(c.Request.Context(), GetActor(c), req.PaymentMethodID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment method selected", sale)
}

// SetDiscount sets the discount
func (h *SaleHandler) SetDiscount(c *gin.Context) {
	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	kind := enum.DiscountTypeFixed
	if req.Type == "percentage" {
		kind = enum.DiscountTypePercentage
	}

	sale, err := h.saleService.SetDiscount(c.Request.Context(), GetActor(c), req.Amount, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount updated", sale)
}

// SetTip sets a tip percentage or an explicit tip amount. An explicit
// null amount with no percentage returns to percentage tipping.
func (h *SaleHandler) SetTip(c *gin.Context) {
	var req request.TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	var (
		sale *entity.Sale
		err  error
	)
	if req.Percentage != nil {
		sale, err = h.saleService.SelectTipPercentage(ctx, GetActor(c), *req.Percentage)
	} else {
		sale, err = h.saleService.SetTipAmount(ctx, GetActor(c), req.Amount)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tip updated", sale)
}

// TipOptions lists the selectable tip percentages
func (h *SaleHandler) TipOptions(c *gin.Context) {
	response.OK(c, "Tip options retrieved", service.TipOptions)
}

// ProcessPayment completes the order and records the payment
// @Summary Pay
// @Tags sale
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Client idempotency key"
// @Param request body request.PaymentRequest true "Payment"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sale/payment [post]
func (h *SaleHandler) ProcessPayment(c *gin.Context) {
	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := service.PaymentInput{AmountTendered: req.AmountTendered}
	if req.CompletionType != "" {
		input.CompletionType, _ = enum.ParseCompletionType(req.CompletionType)
	}

	result, err := h.saleService.ProcessPayment(c.Request.Context(), GetActor(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment processed successfully", result)
}

// Clear discards the local sale. The backend order, if any, is left as is.
func (h *SaleHandler) Clear(c *gin.Context) {
	response.OK(c, "Sale cleared", h.saleService.ClearSale(c.Request.Context(), GetActor(c)))
}

// LoadOrder loads an existing backend order into the sale
func (h *SaleHandler) LoadOrder(c *gin.Context) {
	var req request.LoadOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.LoadExistingOrder(c.Request.Context(), GetActor(c), req.OrderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order loaded", sale)
}

// CancelOrder cancels the sale's backend order and starts a new sale
func (h *SaleHandler) CancelOrder(c *gin.Context) {
	order, err := h.saleService.CancelOrder(c.Request.Context(), GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order cancelled", gin.H{
		"order": order,
		"sale":  h.saleService.GetSale(c.Request.Context(), GetActor(c)),
	})
}
