package domain

// Role is the access level assigned to an authenticated subject.
type Role string

const (
	RoleRoot     Role = "root"
	RoleInvestor Role = "investor"
	RoleUser     Role = "user"
	RoleGuest    Role = "guest"
)

// Wildcard matches any method, path or role in an access rule. It is never a
// valid identity role.
const Wildcard = "*"

// ValidRole reports whether s is one of the four known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleRoot, RoleInvestor, RoleUser, RoleGuest:
		return true
	}
	return false
}

// Identity is a resolved caller: the client-asserted username (an email
// address for everything but guests) and the role the identity provider
// vouched for.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
