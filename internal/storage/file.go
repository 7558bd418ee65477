// Package storage provides durable session.Persister backends.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/naveenspark/tally/pkg/session"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// FileStore keeps the session as two files in a private directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the session files.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name)
}

// Load reads both files. A missing file leaves its half of the record empty;
// ErrNoRecord is returned only when neither exists.
func (f *FileStore) Load() (session.Record, error) {
	var rec session.Record
	tokMissing, userMissing := false, false

	data, err := os.ReadFile(f.path(tokenFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		tokMissing = true
	case err != nil:
		return rec, fmt.Errorf("storage.Load: read token: %w", err)
	default:
		rec.Token = strings.TrimSpace(string(data))
	}

	user, err := os.ReadFile(f.path(userFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		userMissing = true
	case err != nil:
		return rec, fmt.Errorf("storage.Load: read user: %w", err)
	default:
		rec.User = user
	}

	if tokMissing && userMissing {
		return session.Record{}, session.ErrNoRecord
	}
	return rec, nil
}

// Save writes the user first and the token last, so an interrupted save is
// read back as a token-less record.
func (f *FileStore) Save(rec session.Record) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("storage.Save: create dir: %w", err)
	}
	if err := writeFile(f.path(userFile), rec.User); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	if err := writeFile(f.path(tokenFile), []byte(rec.Token+"\n")); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	return nil
}

// Clear removes the token first and then the user.
func (f *FileStore) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(f.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage.Clear: %w", err)
		}
	}
	return nil
}

// writeFile replaces path via a temp file and rename.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name) //nolint:errcheck // no-op after rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
