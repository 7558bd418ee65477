package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/naveenspark/tally/pkg/session"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	keyToken = "token"
	keyUser  = "user"

	opTimeout = 5 * time.Second
)

// SQLiteStore keeps the session as two rows of a client_storage table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath and migrates it.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps save and clear serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// RunMigrations applies the embedded schema migrations to dbPath.
func RunMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close() //nolint:errcheck

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close() //nolint:errcheck

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads both rows. ErrNoRecord is returned when neither exists.
func (s *SQLiteStore) Load() (session.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM client_storage WHERE key IN (?, ?)`, keyToken, keyUser)
	if err != nil {
		return session.Record{}, fmt.Errorf("storage.Load: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var rec session.Record
	found := 0
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return session.Record{}, fmt.Errorf("storage.Load: scan: %w", err)
		}
		found++
		switch key {
		case keyToken:
			rec.Token = string(value)
		case keyUser:
			rec.User = value
		}
	}
	if err := rows.Err(); err != nil {
		return session.Record{}, fmt.Errorf("storage.Load: %w", err)
	}
	if found == 0 {
		return session.Record{}, session.ErrNoRecord
	}
	return rec, nil
}

// Save writes both rows in one transaction.
func (s *SQLiteStore) Save(rec session.Record) error {
	user := rec.User
	if user == nil {
		user = []byte{}
	}
	return s.inTx(func(ctx context.Context, tx *sql.Tx) error {
		const upsert = `INSERT INTO client_storage (key, value, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
		if _, err := tx.ExecContext(ctx, upsert, keyUser, user); err != nil {
			return fmt.Errorf("storage.Save: user: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsert, keyToken, []byte(rec.Token)); err != nil {
			return fmt.Errorf("storage.Save: token: %w", err)
		}
		return nil
	})
}

// Clear deletes both rows in one transaction.
func (s *SQLiteStore) Clear() error {
	return s.inTx(func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM client_storage WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
			return fmt.Errorf("storage.Clear: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) inTx(fn func(context.Context, *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
