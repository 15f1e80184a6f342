package enum

import "strings"

// Role is the console role of the acting user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
)

// ParseRole normalizes a backend role name. Unknown roles map to an empty Role.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin, "administrator", "super-admin":
		return RoleAdmin
	case RoleCashier:
		return RoleCashier
	case RoleWaiter:
		return RoleWaiter
	}
	return ""
}
