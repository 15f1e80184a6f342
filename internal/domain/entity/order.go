package entity

import (
	"time"

	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Order mirrors a backend-owned order
type Order struct {
	ID             string              `json:"id"`
	BusinessID     string              `json:"businessId"`
	BranchID       *string             `json:"branchId,omitempty"`
	CashierID      string              `json:"cashierId"`
	CustomerID     *string             `json:"customerId,omitempty"`
	Customer       *Customer           `json:"customer,omitempty"`
	TableOrderID   *string             `json:"tableOrderId,omitempty"`
	Items          []OrderItem         `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TotalAmount    decimal.Decimal     `json:"totalAmount"`
	TaxAmount      decimal.Decimal     `json:"taxAmount"`
	TipAmount      decimal.Decimal     `json:"tipAmount"`
	TipPercentage  decimal.Decimal     `json:"tipPercentage"`
	Discount       decimal.Decimal     `json:"discount"`
	DiscountType   enum.DiscountType   `json:"discountType"`
	FinalAmount    decimal.Decimal     `json:"finalAmount"`
	Status         enum.OrderStatus    `json:"status"`
	CompletionType enum.CompletionType `json:"completionType,omitempty"`
	Notes          *string             `json:"notes,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// EffectiveSubtotal returns the backend subtotal, falling back to totalAmount
// for backends that only fill the latter.
func (o *Order) EffectiveSubtotal() decimal.Decimal {
	if !o.Subtotal.IsZero() {
		return o.Subtotal
	}
	return o.TotalAmount
}

// FindItemByProduct returns the order line holding the product, if any
func (o *Order) FindItemByProduct(productID string) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Items != nil {
		cp.Items = make([]OrderItem, len(o.Items))
		for i := range o.Items {
			cp.Items[i] = o.Items[i]
			cp.Items[i].Taxes = append([]Tax(nil), o.Items[i].Taxes...)
		}
	}
	if o.Customer != nil {
		c := *o.Customer
		cp.Customer = &c
	}
	return &cp
}

// OrderItem represents a line on a backend order
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId,omitempty"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Taxes     []Tax           `json:"taxes,omitempty"`
}

// Payment is a payment record submitted against an order
type Payment struct {
	ID                   string           `json:"id,omitempty"`
	OrderID              string           `json:"orderId"`
	PaymentMethodID      string           `json:"paymentMethodId"`
	Amount               decimal.Decimal  `json:"amount"`
	AmountTendered       *decimal.Decimal `json:"amountTendered,omitempty"`
	TransactionReference string           `json:"transactionReference"`
	Status               string           `json:"status"`
	CreatedAt            *time.Time       `json:"createdAt,omitempty"`
}

// PaymentStatusCompleted is the status sent for settled payments
const PaymentStatusCompleted = "COMPLETED"
