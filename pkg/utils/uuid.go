package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateTransactionReference generates a payment transaction reference
func GenerateTransactionReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateIdempotencyKey generates a key for one logical write attempt
func GenerateIdempotencyKey() string {
	return uuid.New().String()
}
