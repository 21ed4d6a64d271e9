package identity

import (
	"fmt"
	"strings"
)

// Role is the canonical actor role consumed by every authorization gate.
// Raw role strings arrive from two places (token metadata and the profile
// record) with inconsistent casing; ParseRole is the single point where they
// become typed.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleNGO        Role = "ngo"
	RoleGovernment Role = "government"
)

// ParseRole canonicalizes a raw role string: trimmed, lower-cased, and
// checked against the known set. Unknown values are rejected rather than
// defaulted so a malformed profile cannot silently gain or lose clearance.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCitizen:
		return RoleCitizen, nil
	case RoleNGO:
		return RoleNGO, nil
	case RoleGovernment:
		return RoleGovernment, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// String returns the role's wire representation.
func (r Role) String() string {
	return string(r)
}
