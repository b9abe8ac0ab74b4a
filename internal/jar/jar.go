// Package jar persists named cookies with an expiry in a local SQLite file.
package jar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cookies (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);`

// Jar is a persisted key/value cookie jar. Expired entries read as absent.
type Jar struct {
	db  *sql.DB
	now func() time.Time
}

// Option customises a Jar.
type Option func(*Jar)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(j *Jar) {
		if now != nil {
			j.now = now
		}
	}
}

// Open opens (or creates) the jar database at path. ":memory:" is accepted.
func Open(path string, opts ...Option) (*Jar, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("jar path is empty")
	}
	if trimmed != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(trimmed), 0o700); err != nil {
			return nil, fmt.Errorf("create jar dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", trimmed)
	if err != nil {
		return nil, fmt.Errorf("open jar: %w", err)
	}
	// ":memory:" databases live only as long as their connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping jar: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init jar: %w", err)
	}

	j := &Jar{db: db, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Get returns the value stored under name. Expired rows are deleted and
// reported as absent.
func (j *Jar) Get(ctx context.Context, name string) (string, bool, error) {
	if j == nil {
		return "", false, fmt.Errorf("jar is nil")
	}
	var (
		value     string
		expiresAt int64
	)
	err := j.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cookies WHERE name = ?`, name,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cookie %q: %w", name, err)
	}

	if !j.now().Before(time.Unix(expiresAt, 0)) {
		if err := j.Remove(ctx, name); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value under name until expiresAt, replacing any previous value.
func (j *Jar) Set(ctx context.Context, name, value string, expiresAt time.Time) error {
	if j == nil {
		return fmt.Errorf("jar is nil")
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, name, value, expiresAt.Unix())
	if err != nil {
		return fmt.Errorf("set cookie %q: %w", name, err)
	}
	return nil
}

// Remove deletes the cookie. Removing a missing cookie is not an error.
func (j *Jar) Remove(ctx context.Context, name string) error {
	if j == nil {
		return fmt.Errorf("jar is nil")
	}
	if _, err := j.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name); err != nil {
		return fmt.Errorf("remove cookie %q: %w", name, err)
	}
	return nil
}

// PurgeExpired deletes every expired cookie and reports how many went away.
func (j *Jar) PurgeExpired(ctx context.Context) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("jar is nil")
	}
	res, err := j.db.ExecContext(ctx, `DELETE FROM cookies WHERE expires_at <= ?`, j.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge cookies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge cookies: %w", err)
	}
	return n, nil
}

// Close releases the underlying database.
func (j *Jar) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
