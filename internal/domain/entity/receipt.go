package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"storeName"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"taxId,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a printable value object composed from a paid sale or a fetched
// order at print time. It is never persisted.
type Receipt struct {
	Header        ReceiptHeader    `json:"header"`
	OrderID       string           `json:"orderId"`
	Reference     string           `json:"reference,omitempty"`
	Date          string           `json:"date"`
	Cashier       string           `json:"cashier,omitempty"`
	Customer      string           `json:"customer,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Items         []ReceiptItem    `json:"items"`
	SubTotal      decimal.Decimal  `json:"subTotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Discount      decimal.Decimal  `json:"discount"`
	Tip           decimal.Decimal  `json:"tip"`
	Total         decimal.Decimal  `json:"total"`
	Tendered      *decimal.Decimal `json:"tendered,omitempty"`
	Change        decimal.Decimal  `json:"change"`
	Footer        string           `json:"footer,omitempty"`
}
