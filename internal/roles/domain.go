package roles

import "time"

// Reserved role names created lazily during registration and bootstrap.
const (
	AdminRoleName   = "Admin"
	DefaultRoleName = "User"
)

// Role represents a permission grouping assigned to identities. The
// IsSuperuser flag marks the unrestricted role explicitly instead of relying
// on a name comparison, so renaming "Admin" cannot silently revoke the
// bypass.
type Role struct {
	ID          int64
	Name        string
	IsSuperuser bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
