package domain

// Role is the account type chosen at registration. It never changes afterwards.
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// AllRoles contains all valid roles
var AllRoles = []Role{RoleTeacher, RoleStudent}

// IsValid checks if a role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
