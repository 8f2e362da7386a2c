package access

// Reason explains a Deny decision.
type Reason int

const (
	ReasonAllowed Reason = iota
	ReasonNoRole
	ReasonForbidden
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var (
	allow         = Decision{Allowed: true}
	denyNoRole    = Decision{Reason: ReasonNoRole}
	denyForbidden = Decision{Reason: ReasonForbidden}
)

// Guard is the authorization decision function for routes.
//
// SelfOverride preserves a legacy behavior of this API: when enabled, an
// actor whose id equals the route's target id is allowed through even on
// routes that do not declare the RoleSelf capability. That broadens access
// beyond the declared role set, so it is an explicit configuration choice
// rather than a fallthrough. See DESIGN.md.
type Guard struct {
	SelfOverride bool
}

// Authorize decides whether ident may use a route requiring one of the given
// roles. targetID is the route's target resource id ("" when the route has
// none). Pure function: no I/O, deterministic given its inputs.
func (g *Guard) Authorize(ident *Identity, required []Role, targetID string) Decision {
	if ident == nil || ident.Role == "" {
		return denyNoRole
	}

	for _, r := range required {
		if r == RoleSelf {
			// Self-scoped route: owner passes; admin passes regardless of target.
			if targetID != "" && ident.ID == targetID {
				return allow
			}
			if ident.Role == RoleAdmin {
				return allow
			}
			continue
		}
		if ident.Role == r {
			return allow
		}
	}

	if g.SelfOverride && targetID != "" && ident.ID == targetID {
		return allow
	}

	return denyForbidden
}
