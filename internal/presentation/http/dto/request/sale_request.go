package request

import "github.com/shopspring/decimal"

// AddItemRequest adds one unit of a product, by id or by scanned barcode
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required_without=Barcode"`
	Barcode   string `json:"barcode" binding:"required_without=ProductID"`
}

// UpdateQuantityRequest sets the quantity of a cart line. Zero or less
// removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SelectCustomerRequest selects a customer; a null id clears the selection
type SelectCustomerRequest struct {
	CustomerID *string `json:"customerId"`
}

// SelectPaymentMethodRequest selects the payment method of the sale
type SelectPaymentMethodRequest struct {
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
}

// DiscountRequest sets the sale discount
type DiscountRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type" binding:"omitempty,oneof=fixed percentage"`
}

// TipRequest sets either a tip percentage or an explicit tip amount
type TipRequest struct {
	Percentage *decimal.Decimal `json:"percentage"`
	Amount     *decimal.Decimal `json:"amount"`
}

// PaymentRequest finalizes the sale
type PaymentRequest struct {
	AmountTendered *decimal.Decimal `json:"amountTendered"`
	CompletionType string           `json:"completionType" binding:"omitempty,oneof=PICKUP DELIVERY DINE_IN"`
}

// LoadOrderRequest loads an existing backend order into the sale
type LoadOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}
