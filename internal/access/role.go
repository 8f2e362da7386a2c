// Package access holds the role reference data, the role-creation policy and
// the authorization guard. Everything here is pure: no I/O, deterministic,
// loaded once at startup and read-only afterwards.
package access

// Role is one of the closed set of account roles.
type Role string

const (
	RoleBuyer      Role = "buyer"
	RoleVendor     Role = "vendor"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"

	// RoleSelf is a route capability, not an account role: a route that lists
	// it grants access when the authenticated id equals the target id.
	RoleSelf Role = "self"
)

var validRoles = map[Role]struct{}{
	RoleBuyer:      {},
	RoleVendor:     {},
	RoleStaff:      {},
	RoleAdmin:      {},
	RoleSuperAdmin: {},
}

// Roles returns the closed set of account roles.
func Roles() []Role {
	return []Role{RoleBuyer, RoleVendor, RoleStaff, RoleAdmin, RoleSuperAdmin}
}

// ValidRole reports whether name is a member of the closed role set.
// RoleSelf is a capability and is not valid as an account role.
func ValidRole(name string) bool {
	_, ok := validRoles[Role(name)]
	return ok
}

// Identity is the authenticated principal decoded from a session token.
type Identity struct {
	ID   string
	Role Role
}
