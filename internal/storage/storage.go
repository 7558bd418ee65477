package storage

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/naveenspark/tally/pkg/session"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DBFile is the SQLite database name inside the data directory.
const DBFile = "tally.db"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the persister for backend, rooted at dir. The closer must be
// closed when the process is done with the session.
func Open(backend, dir string) (session.Persister, io.Closer, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir), nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLite(filepath.Join(dir, DBFile))
		if err != nil {
			return nil, nil, fmt.Errorf("storage.Open: %w", err)
		}
		return s, s, nil
	case BackendMemory:
		return session.NewMemoryStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("storage.Open: unknown backend %q", backend)
	}
}
