package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fleetctl/pkg/session"
)

// FileStore keeps each entry in its own file under dir, one file per entry
// name. The roles entry holds a JSON array.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(token string, roles []session.Role) error {
	raw, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}
	if err := os.WriteFile(s.path(tokenEntry), []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.WriteFile(s.path(rolesEntry), raw, 0o600); err != nil {
		return fmt.Errorf("write roles: %w", err)
	}
	return nil
}

func (s *FileStore) Load() (string, []session.Role, error) {
	raw, err := os.ReadFile(s.path(tokenEntry))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("read token: %w", err)
	}
	token := string(raw)

	rawRoles, err := os.ReadFile(s.path(rolesEntry))
	if errors.Is(err, fs.ErrNotExist) {
		return token, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("read roles: %w", err)
	}

	var roles []session.Role
	if err := json.Unmarshal(rawRoles, &roles); err != nil {
		return token, nil, ErrCorruptRoles
	}
	return token, roles, nil
}

func (s *FileStore) Clear() error {
	for _, entry := range []string{tokenEntry, rolesEntry} {
		if err := os.Remove(s.path(entry)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", entry, err)
		}
	}
	return nil
}

func (s *FileStore) path(entry string) string {
	return filepath.Join(s.dir, entry)
}
