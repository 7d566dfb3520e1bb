package domain

// UserRole enumerates roles carried in access tokens.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// IsAdmin reports whether the role may call admin-only methods.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
