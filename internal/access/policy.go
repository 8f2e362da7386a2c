package access

import "pasar/internal/apperr"

// Distinguishable policy failures. The caller renders different guidance for
// each, so they are separate sentinels rather than one generic error.
var (
	ErrUnknownRole           = apperr.New(apperr.Validation, "Invalid role")
	ErrInsufficientPrivilege = apperr.New(apperr.Forbidden, "Insufficient privilege to create this role")
	ErrSuperAdminExists      = apperr.New(apperr.Conflict, "A super-admin already exists")
)

// CanCreate decides whether an actor may create an account with the target
// role. A nil actor is an anonymous caller. superAdminExists reports whether
// a super-admin account is already present; while one exists, creating
// another is rejected regardless of actor.
//
// Rules:
//   - buyer, vendor: self-registrable by anonymous callers.
//   - staff: requires admin (or super-admin, which outranks it).
//   - admin: requires super-admin.
//   - super-admin: at most one system-wide; the first is bootstrappable by
//     any caller.
func CanCreate(actor *Identity, target Role, superAdminExists bool) error {
	if !ValidRole(string(target)) {
		return ErrUnknownRole
	}

	switch target {
	case RoleBuyer, RoleVendor:
		return nil
	case RoleStaff:
		if actor == nil || (actor.Role != RoleAdmin && actor.Role != RoleSuperAdmin) {
			return ErrInsufficientPrivilege
		}
		return nil
	case RoleAdmin:
		if actor == nil || actor.Role != RoleSuperAdmin {
			return ErrInsufficientPrivilege
		}
		return nil
	case RoleSuperAdmin:
		if superAdminExists {
			return ErrSuperAdminExists
		}
		return nil
	}
	return ErrUnknownRole
}
