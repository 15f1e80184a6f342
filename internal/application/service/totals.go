package service

import (
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TipOptions are the tip percentages offered at the counter
var TipOptions = []int64{0, 10, 15, 18, 20, 25}

// IsTipOption reports whether pct is one of the offered tip percentages
func IsTipOption(pct decimal.Decimal) bool {
	for _, opt := range TipOptions {
		if pct.Equal(decimal.NewFromInt(opt)) {
			return true
		}
	}
	return false
}

// CalculateTotals derives subtotal, tax, discount, tip and total of a sale.
// When the sale has a backend order its figures are taken as is; otherwise
// they are computed from the cart. The input sale is not modified.
func CalculateTotals(sale *entity.Sale, taxes []entity.Tax) *entity.Sale {
	out := sale.Clone()
	if out == nil {
		out = entity.NewSale()
	}

	if order := out.CurrentOrder; order != nil {
		out.Subtotal = order.EffectiveSubtotal()
		out.Tax = order.TaxAmount
		out.TipAmount = order.TipAmount
		out.DiscountAmount = order.Discount
		out.Total = order.FinalAmount
		return out
	}

	subtotal := decimal.Zero
	for _, item := range out.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	// Rates are additive, never compounded
	rate := decimal.Zero
	for _, t := range taxes {
		rate = rate.Add(t.Rate)
	}
	tax := subtotal.Mul(rate)

	discount := out.Discount
	if out.DiscountType == enum.DiscountTypePercentage {
		discount = subtotal.Mul(out.Discount).Div(hundred)
	}

	tip := subtotal.Mul(out.TipPercentage).Div(hundred)
	if out.ExplicitTip != nil {
		tip = *out.ExplicitTip
	}

	total := subtotal.Add(tax).Sub(discount).Add(tip)
	if total.IsNegative() {
		total = decimal.Zero
	}

	out.Subtotal = subtotal
	out.Tax = tax
	out.DiscountAmount = discount
	out.TipAmount = tip
	out.Total = total
	return out
}

// LineSubtotal is price × quantity of a cart line
func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
