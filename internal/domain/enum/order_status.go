package enum

import (
	"encoding/json"
	"strings"
)

// OrderStatus represents the lifecycle state of a backend order
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusConfirmed OrderStatus = 1
	OrderStatusCompleted OrderStatus = 2
	OrderStatusPaid      OrderStatus = 3
	OrderStatusCancelled OrderStatus = 4
	// OrderStatusUnknown is any state the console does not recognize. It is
	// neither editable nor payable.
	OrderStatusUnknown OrderStatus = 5
)

var orderStatusNames = [...]string{"PENDING", "CONFIRMED", "COMPLETED", "PAID", "CANCELLED", "UNKNOWN"}

func (s OrderStatus) String() string {
	if int(s) < 0 || int(s) >= len(orderStatusNames) {
		return orderStatusNames[OrderStatusUnknown]
	}
	return orderStatusNames[s]
}

// Editable reports whether cart mutations are allowed on an order in this state.
func (s OrderStatus) Editable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// Terminal reports whether the order can no longer change on the client.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// ParseOrderStatus parses a status name case-insensitively.
func ParseOrderStatus(str string) (OrderStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "PENDING":
		return OrderStatusPending, true
	case "CONFIRMED":
		return OrderStatusConfirmed, true
	case "COMPLETED", "COMPLETE":
		return OrderStatusCompleted, true
	case "PAID":
		return OrderStatusPaid, true
	case "CANCELLED", "CANCELED", "CANCEL":
		return OrderStatusCancelled, true
	}
	return OrderStatusUnknown, false
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		if i < 0 || i >= int(OrderStatusUnknown) {
			*s = OrderStatusUnknown
		}
		return nil
	}
	*s, _ = ParseOrderStatus(str)
	return nil
}
