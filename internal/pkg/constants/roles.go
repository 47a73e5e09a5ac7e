package constants

const (
	Admin = "admin"
	User  = "user"
)

// ValidRoles is the set of allowed values for the Users role column.
var ValidRoles = []string{User, Admin}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
