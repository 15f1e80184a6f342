package request

import "github.com/shopspring/decimal"

// StartShiftRequest opens a cashier shift
type StartShiftRequest struct {
	InitialCash decimal.Decimal `json:"initialCash"`
}

// EndShiftRequest closes the open shift
type EndShiftRequest struct {
	FinalCash decimal.Decimal `json:"finalCash"`
	Notes     *string         `json:"notes"`
}
