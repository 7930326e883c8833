// Package store provides the SQLite-backed entity store for hikes,
// observations, and media, including cascade deletion and the composed
// search query.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/raido/internal/apperr"
)

// DB wraps a sql.DB with hike-journal operations.
type DB struct {
	conn   *sql.DB
	closed atomic.Bool
}

// Open opens (or creates) the SQLite database and applies the schema.
// Foreign keys are enabled on the connection so child rows cascade with
// their hike.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", apperr.ErrStorageUnavailable)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection. Any operation issued
// afterwards fails with apperr.ErrStoreClosed.
func (db *DB) Close() error {
	db.closed.Store(true)
	return db.conn.Close()
}

// guard rejects operations against a closed store.
func (db *DB) guard() error {
	if db.closed.Load() {
		return apperr.ErrStoreClosed
	}
	return nil
}

// mapErr classifies a storage error into the apperr taxonomy.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("store: %s: %w", op, apperr.ErrConstraint)
	}
	return fmt.Errorf("store: %s: %v: %w", op, err, apperr.ErrStorageUnavailable)
}

// Calendar dates are stored as ISO-8601 date strings so that range
// predicates compare lexicographically; instants are stored as integer
// milliseconds since epoch. Both round-trip losslessly.

const dateLayout = "2006-01-02"

func encodeDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dateLayout)
}

func decodeDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("store: bad date %q: %w", s.String, err)
	}
	return &t, nil
}

func encodeInstant(t time.Time) int64 { return t.UnixMilli() }

func decodeInstant(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
