package entity

import (
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CartItem is a line of the local cart projection
type CartItem struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	// Unresolved marks backend lines whose product is unknown to the catalog.
	Unresolved bool `json:"unresolved,omitempty"`
}

// Sale is the cashier's view-model: cart, selections, current order and
// computed totals. It is rebuilt from the order whenever one exists.
type Sale struct {
	Items         []CartItem     `json:"items"`
	Customer      *Customer      `json:"customer,omitempty"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
	CurrentOrder  *Order         `json:"currentOrder,omitempty"`

	Discount      decimal.Decimal   `json:"discount"`
	DiscountType  enum.DiscountType `json:"discountType"`
	ExplicitTip   *decimal.Decimal  `json:"explicitTip,omitempty"`
	TipPercentage decimal.Decimal   `json:"tipPercentage"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TipAmount      decimal.Decimal `json:"tipAmount"`
	Total          decimal.Decimal `json:"total"`

	// AwaitingPayment is set once the backend completed the order but the
	// payment has not been recorded yet.
	AwaitingPayment bool `json:"awaitingPayment"`
	// PaymentKey identifies the payment attempt for this sale across retries.
	PaymentKey string `json:"-"`
}

// NewSale returns an empty sale
func NewSale() *Sale {
	return &Sale{Items: []CartItem{}}
}

// IsEmpty reports whether the cart holds no items
func (s *Sale) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount returns the total quantity across all cart lines
func (s *Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// FindItem returns the index of the cart line holding the product, or -1
func (s *Sale) FindItem(productID string) int {
	for i := range s.Items {
		if s.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy that shares no mutable state with s
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Items = make([]CartItem, len(s.Items))
	copy(cp.Items, s.Items)
	if s.Customer != nil {
		c := *s.Customer
		cp.Customer = &c
	}
	if s.PaymentMethod != nil {
		m := *s.PaymentMethod
		cp.PaymentMethod = &m
	}
	if s.ExplicitTip != nil {
		t := *s.ExplicitTip
		cp.ExplicitTip = &t
	}
	cp.CurrentOrder = s.CurrentOrder.Clone()
	return &cp
}
