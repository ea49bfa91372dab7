package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFilename rejects names that try to escape the storage root.
var ErrInvalidFilename = errors.New("invalid filename")

// LocalStore persists uploaded files on the local filesystem under a
// single root directory. Stored names are collision-resistant: a random
// UUID prefixed to the cleaned original name.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Store writes data under a generated name and returns that name as the
// storage handle.
func (s *LocalStore) Store(data []byte, originalFilename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(originalFilename))
	if name == "" || name == "." || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, originalFilename)
	}

	stored := uuid.New().String() + "_" + name
	if err := os.WriteFile(filepath.Join(s.root, stored), data, 0o644); err != nil {
		return "", fmt.Errorf("store file %s: %w", stored, err)
	}
	return stored, nil
}

// Path resolves a storage handle to an absolute file path.
func (s *LocalStore) Path(stored string) string {
	return filepath.Join(s.root, stored)
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalStore) Delete(stored string) error {
	err := os.Remove(s.Path(stored))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file %s: %w", stored, err)
	}
	return nil
}
