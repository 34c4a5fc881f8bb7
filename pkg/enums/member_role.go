package enums

import "fmt"

// MemberRole is the actor role carried inside access tokens.
type MemberRole string

const (
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleManager  MemberRole = "manager"
	MemberRoleOperator MemberRole = "operator"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleManager,
	MemberRoleOperator,
}

// IsValid reports whether the value matches the canonical member role enum.
func (r MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseMemberRole converts raw input into MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
