package entity

import (
	"time"

	"github.com/sangkips/pos-console/internal/domain/enum"
)

// Table represents a physical table of a branch
type Table struct {
	ID       string           `json:"id"`
	BranchID string           `json:"branchId,omitempty"`
	Number   string           `json:"number"`
	Capacity int              `json:"capacity"`
	Status   enum.TableStatus `json:"status"`
}

// TableOrder groups the orders of one table session
type TableOrder struct {
	ID       string     `json:"id"`
	TableID  string     `json:"tableId"`
	WaiterID string     `json:"waiterId"`
	Guests   int        `json:"guests"`
	Status   string     `json:"status"`
	Orders   []Order    `json:"orders,omitempty"`
	Table    *Table     `json:"table,omitempty"`
	OpenedAt *time.Time `json:"openedAt,omitempty"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
}

// IsOpen reports whether the table session still accepts orders
func (t *TableOrder) IsOpen() bool {
	return t.ClosedAt == nil && t.Status != "CLOSED"
}
