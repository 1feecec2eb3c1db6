package users

import "time"

// User represents a user account for registration and management. The
// password hash never leaves the repository layer through this type.
type User struct {
	ID         int64
	Email      string
	FirstName  string
	LastName   string
	MiddleName *string
	IsActive   bool
	RoleID     *int64
	RoleName   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
