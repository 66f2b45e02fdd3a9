package session

// Role is a backend authority string. The backend may send roles this
// client does not know about; only the constants below carry meaning here.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// Session is the current authenticated identity. An empty Token means
// unauthenticated; ID and Username are display data and carry no
// authorization meaning on their own.
type Session struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
	Roles    []Role `json:"roles"`
}

func Anonymous() Session {
	return Session{Roles: []Role{}}
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

func (s Session) HasRole(role Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func cloneRoles(roles []Role) []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
