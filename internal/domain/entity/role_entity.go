package entity

// Role is the closed set of account roles.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole returns the role named s, defaulting to buyer for an empty string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case "":
		return RoleBuyer, true
	case RoleBuyer, RoleSeller, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller || r == RoleAdmin
}

// CanSell reports whether the role may list products.
func (r Role) CanSell() bool { return r == RoleSeller || r == RoleAdmin }

// SelfAssignable reports whether a user may pick this role at registration.
func (r Role) SelfAssignable() bool { return r == RoleBuyer || r == RoleSeller }
