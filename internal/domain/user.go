package domain

import "time"

// UserRole enumerates the account roles known to the helpdesk.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleSupport  UserRole = "support"
	RoleAdmin    UserRole = "admin"
)

// User is the domain model for anyone who can authenticate: shoppers
// opening tickets and the staff answering them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the user may act on tickets they do not own.
// Every authorization check goes through this single predicate.
func (u *User) IsStaff() bool {
	if u == nil {
		return false
	}
	return u.Role == RoleSupport || u.Role == RoleAdmin
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
