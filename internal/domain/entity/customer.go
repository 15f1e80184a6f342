package entity

import "time"

// Customer represents a customer known to the POS backend
type Customer struct {
	ID             string     `json:"id"`
	BusinessID     string     `json:"businessId,omitempty"`
	Name           string     `json:"name"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	DocumentNumber *string    `json:"documentNumber,omitempty"`
	Address        *string    `json:"address,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}
