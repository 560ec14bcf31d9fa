package model

import "time"

// Role classifies an account within the platform.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupport  Role = "support"
	RoleDesigner Role = "designer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is a known member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSupport, RoleDesigner, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account, customer or staff.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Identity is the authenticated caller as resolved by the HTTP layer.
type Identity struct {
	UserID int64
	Role   Role
}
