package entity

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog product as served by the POS backend.
// Price may arrive as a JSON string or number; decimal accepts both.
type Product struct {
	ID            string          `json:"id"`
	BusinessID    string          `json:"businessId,omitempty"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Barcode       *string         `json:"barcode,omitempty"`
	CategoryID    *string         `json:"categoryId,omitempty"`
	SubcategoryID *string         `json:"subcategoryId,omitempty"`
	Active        bool            `json:"isActive"`
}

// HasBarcode reports whether the product can be looked up by barcode
func (p *Product) HasBarcode() bool {
	return p.Barcode != nil && *p.Barcode != ""
}

// Category represents a product category
type Category struct {
	ID          string  `json:"id"`
	BusinessID  string  `json:"businessId,omitempty"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Active      bool    `json:"isActive"`
}

// Subcategory represents a product subcategory under a category
type Subcategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Active     bool   `json:"isActive"`
}

// Tax is a flat tax rate expressed as a fraction (0.16 = 16%)
type Tax struct {
	ID         string          `json:"id"`
	BusinessID string          `json:"businessId,omitempty"`
	Name       string          `json:"name"`
	Rate       decimal.Decimal `json:"rate"`
	Active     bool            `json:"isActive"`
}

// PaymentMethod represents a tender type accepted at the counter
type PaymentMethod struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"isActive"`
}

// PaymentMethodCash is the code of the cash tender
const PaymentMethodCash = "CASH"

// IsCash reports whether the method requires a tendered amount
func (m *PaymentMethod) IsCash() bool {
	return m != nil && m.Code == PaymentMethodCash
}
