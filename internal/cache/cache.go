// Package cache is the local key-value store used by laytimectl in place of
// browser storage. Records are versioned; a record written by another schema
// version reads back as domain.ErrInvalidCache.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"marithon/internal/domain"
)

// RecordVersion is the schema version stamped on every record.
const RecordVersion = 1

// Well-known keys.
const (
	KeyAuthToken  = "auth_token"
	KeyUserData   = "user_data"
	KeyExtraction = "extraction_result"
	KeyPrefill    = "laytime_prefill"
	KeyLastCalc   = "last_calculation"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    key        TEXT PRIMARY KEY,
    version    INTEGER NOT NULL,
    value      BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

type record struct {
	Key       string    `db:"key"`
	Version   int       `db:"version"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store is a SQLite-backed key-value cache.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens (creating if needed) the cache database at path. ":memory:"
// opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("cache.Open: creating directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache.Open: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache.Open: creating schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key, domain.ErrNotFound when absent, or
// domain.ErrInvalidCache when the record has another version.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var rec record
	err := s.db.GetContext(ctx, &rec, `SELECT key, version, value, updated_at FROM records WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cache.Get: %w", err)
	}
	if rec.Version != RecordVersion {
		return nil, fmt.Errorf("%w: %s has version %d", domain.ErrInvalidCache, key, rec.Version)
	}
	return rec.Value, nil
}

// Put stores value under key, replacing any previous record.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (key, version, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET version = excluded.version, value = excluded.value, updated_at = excluded.updated_at`,
		key, RecordVersion, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("cache.Put: %w", err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
			return fmt.Errorf("cache.Delete: %w", err)
		}
	}
	return nil
}

// PutJSON stores v encoded as JSON.
func (s *Store) PutJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache.PutJSON: %w", err)
	}
	return s.Put(ctx, key, raw)
}

// GetJSON decodes the value under key into v. Undecodable values are
// reported as domain.ErrInvalidCache.
func (s *Store) GetJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidCache, key, err)
	}
	return nil
}
