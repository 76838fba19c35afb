package domain

// Role is the authorization tier of the current session.
type Role string

const (
	// RoleNone means there is no valid session.
	RoleNone   Role = ""
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known non-null roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// String renders RoleNone as "none" for logs.
func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// SessionUser is the user record persisted next to the credential.
type SessionUser struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session pairs the credential with its user. Both halves are read and
// written together.
type Session struct {
	Token string
	User  SessionUser
}

// Role returns the session role, or RoleNone when the credential is absent.
func (s Session) Role() Role {
	if s.Token == "" || !s.User.Role.Valid() {
		return RoleNone
	}
	return s.User.Role
}
