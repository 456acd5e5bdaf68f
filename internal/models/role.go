package models

// Role is the role carried by operator tokens for catalog administration.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// IsValid reports whether r is a known operator role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEditor
}
