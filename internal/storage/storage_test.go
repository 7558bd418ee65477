package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/tally/pkg/domain"
	"github.com/naveenspark/tally/pkg/session"
)

func backends(t *testing.T) map[string]session.Persister {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), DBFile))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() }) //nolint:errcheck

	return map[string]session.Persister{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "data")),
		"sqlite": sq,
		"memory": session.NewMemoryStore(),
	}
}

func TestEmptyBackendHasNoRecord(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := p.Load()
			assert.ErrorIs(t, err, session.ErrNoRecord)
		})
	}
}

func TestSaveLoadClear(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := session.Record{Token: "tok123", User: []byte(`{"id":"u1","name":"Ann"}`)}
			require.NoError(t, p.Save(rec))

			got, err := p.Load()
			require.NoError(t, err)
			assert.Equal(t, "tok123", got.Token)
			assert.JSONEq(t, string(rec.User), string(got.User))

			require.NoError(t, p.Clear())
			_, err = p.Load()
			assert.ErrorIs(t, err, session.ErrNoRecord)

			// Clearing twice is fine.
			assert.NoError(t, p.Clear())
		})
	}
}

func TestLoginLogoutThroughStore(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := session.New(p)
			s.Initialize()
			require.False(t, s.IsAuthenticated())

			require.NoError(t, s.Login(&domain.User{ID: "u1", Name: "Ann"}, "tok123"))

			// A fresh store over the same backend sees the session.
			again := session.New(p)
			again.Initialize()
			require.True(t, again.IsAuthenticated())
			assert.Equal(t, "Ann", again.User().Name)
			assert.Equal(t, "tok123", again.Token())

			require.NoError(t, s.Logout())
			_, err := p.Load()
			assert.ErrorIs(t, err, session.ErrNoRecord)
		})
	}
}

func TestFileStorePermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tally")
	f := NewFileStore(dir)
	require.NoError(t, f.Save(session.Record{Token: "tok", User: []byte(`{"id":"u1"}`)}))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	for _, name := range []string{tokenFile, userFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), name)
	}
}

func TestFileStoreHalfWrittenIsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	user, err := json.Marshal(domain.User{ID: "u1", Name: "Ann"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, userFile), user, 0o600))

	f := NewFileStore(dir)
	rec, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, rec.Token)

	s := session.New(f)
	s.Initialize()
	assert.False(t, s.IsAuthenticated())

	_, err = os.Stat(filepath.Join(dir, userFile))
	assert.True(t, os.IsNotExist(err), "orphan user file should be removed")
}

func TestFileStoreCorruptUserIsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFile), []byte("tok\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, userFile), []byte("{broken"), 0o600))

	s := session.New(NewFileStore(dir))
	s.Initialize()
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "", s.Token())
}

func TestFileStoreNullTokenSentinel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFile), []byte("null"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, userFile), []byte(`{"id":"u1"}`), 0o600))

	s := session.New(NewFileStore(dir))
	s.Initialize()
	assert.False(t, s.IsAuthenticated())
}

func TestSQLiteReopenKeepsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBFile)
	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(session.Record{Token: "tok", User: []byte(`{"id":"u1"}`)}))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close() //nolint:errcheck

	rec, err := second.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", rec.Token)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		want    any
		wantErr bool
	}{
		{"", &FileStore{}, false},
		{BackendFile, &FileStore{}, false},
		{BackendMemory, &session.MemoryStore{}, false},
		{BackendSQLite, &SQLiteStore{}, false},
		{"redis", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			p, closer, err := Open(tt.backend, dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
			assert.NoError(t, closer.Close())
		})
	}
}
