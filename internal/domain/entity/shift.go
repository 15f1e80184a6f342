package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shift is a cashier's timed session bounding the sales they may process
type Shift struct {
	ID          string           `json:"id"`
	CashierID   string           `json:"cashierId"`
	BranchID    *string          `json:"branchId,omitempty"`
	Status      string           `json:"status"`
	InitialCash decimal.Decimal  `json:"initialCash"`
	FinalCash   *decimal.Decimal `json:"finalCash,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	StartedAt   time.Time        `json:"startedAt"`
	EndedAt     *time.Time       `json:"endedAt,omitempty"`
}

// IsOpen reports whether the shift has not been ended
func (s *Shift) IsOpen() bool {
	return s.EndedAt == nil
}
