package request

// PrintReceiptRequest is the request body for reprinting an order receipt.
type PrintReceiptRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}
