package channel

import "fmt"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// CanManageVideos reports whether the role may create, edit or publish.
func (r Role) CanManageVideos() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	case RoleMember:
		return false
	default:
		return false
	}
}

// ParseRole maps stored values onto the closed set. Unknown values are an
// error rather than silently becoming member.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown channel role %q", s)
	}
	return r, nil
}
