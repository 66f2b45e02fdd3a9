package store

import (
	"errors"

	"fleetctl/pkg/session"
)

// Entry names are part of the persisted format. Changing them invalidates
// every session saved by older builds.
const (
	tokenEntry = "token"
	rolesEntry = "userRoles"
)

// ErrCorruptRoles is reported by Load when the persisted roles entry exists
// but cannot be parsed. Callers treat it as "nothing persisted".
var ErrCorruptRoles = errors.New("corrupt persisted roles")

// Store is the durable session store: it outlives the process and keeps the
// bearer token plus the role list of the last login. Load on an empty store
// returns an empty token and no error.
type Store interface {
	Save(token string, roles []session.Role) error
	Load() (token string, roles []session.Role, err error)
	Clear() error
}
