package enums

import "fmt"

// UserRole maps to the role column on the users table.
type UserRole string

const (
	UserRoleAdmin        UserRole = "admin"
	UserRoleLabAssistant UserRole = "lab_assistant"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleLabAssistant,
}

// IsValid reports whether the value matches the canonical role enum.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

// ParseUserRole converts raw input into UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
