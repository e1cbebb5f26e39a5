package models

// Role is the closed set of account roles. Stored as text but only ever
// compared through this type.
type Role string

const (
	RolePlayer   Role = "player"
	RoleAdmin    Role = "admin"
	RoleAdminPro Role = "adminpro"
	RoleSupreme  Role = "supreme"
)

// AdminRoles is the set allowed on administrative operations.
var AdminRoles = []Role{RoleAdmin, RoleAdminPro, RoleSupreme}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePlayer, RoleAdmin, RoleAdminPro, RoleSupreme:
		return Role(s), true
	}
	return "", false
}

func (r Role) Elevated() bool {
	for _, a := range AdminRoles {
		if r == a {
			return true
		}
	}
	return false
}
