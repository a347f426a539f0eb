package enums

import (
	"fmt"
	"strings"
)

// Role is the account role gating catalog write access.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalizes and validates a role string.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}
