package enum

import "strings"

// CompletionType tells the backend how a completed order leaves the counter
type CompletionType string

const (
	CompletionTypePickup   CompletionType = "PICKUP"
	CompletionTypeDelivery CompletionType = "DELIVERY"
	CompletionTypeDineIn   CompletionType = "DINE_IN"
)

// ParseCompletionType returns the completion type or false when unknown.
func ParseCompletionType(s string) (CompletionType, bool) {
	switch ct := CompletionType(strings.ToUpper(strings.TrimSpace(s))); ct {
	case CompletionTypePickup, CompletionTypeDelivery, CompletionTypeDineIn:
		return ct, true
	}
	return "", false
}
