package entity

import (
	"github.com/sangkips/pos-console/internal/domain/enum"
)

// User is the acting console user as returned by the backend sign-in
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	BusinessID *string `json:"businessId,omitempty"`
	Branch     *Branch `json:"branch,omitempty"`
}

// ConsoleRole returns the normalized console role
func (u *User) ConsoleRole() enum.Role {
	return enum.ParseRole(u.Role)
}

// BusinessContext resolves the business the user acts for: the direct business
// association first, then the branch's business.
func (u *User) BusinessContext() (string, bool) {
	if u.BusinessID != nil && *u.BusinessID != "" {
		return *u.BusinessID, true
	}
	if u.Branch != nil && u.Branch.BusinessID != "" {
		return u.Branch.BusinessID, true
	}
	return "", false
}

// BranchID returns the user's branch id if any
func (u *User) BranchID() *string {
	if u.Branch == nil || u.Branch.ID == "" {
		return nil
	}
	id := u.Branch.ID
	return &id
}

// Branch represents a physical branch of a business
type Branch struct {
	ID         string  `json:"id"`
	BusinessID string  `json:"businessId"`
	Name       string  `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// BusinessSettings holds business-wide settings managed from the admin views
type BusinessSettings struct {
	BusinessID    string  `json:"businessId"`
	Name          string  `json:"name"`
	TaxID         *string `json:"taxId,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Currency      string  `json:"currency"`
	ReceiptFooter *string `json:"receiptFooter,omitempty"`
}
