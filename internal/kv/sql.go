package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/ShopKeeper/internal/db"
)

// SQLStore implements Store on top of the kv table created by the db package.
type SQLStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB

	getQuery    string
	setQuery    string
	removeQuery string
	now         func() time.Time
}

// NewSQLStore creates a SQLStore speaking the given dialect.
// conn must have the kv table in place (see db.InitPostgres and db.InitSQLite).
func NewSQLStore(conn *sql.DB, dialect db.Dialect) *SQLStore {
	p := dialect.Placeholder
	return &SQLStore{
		DB:       conn,
		getQuery: fmt.Sprintf(`SELECT value FROM kv WHERE key = %s`, p(1)),
		setQuery: fmt.Sprintf(`INSERT INTO kv (key, value, updated_at) VALUES (%s, %s, %s)
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = EXCLUDED.updated_at`, p(1), p(2), p(3)),
		removeQuery: fmt.Sprintf(`DELETE FROM kv WHERE key = %s`, p(1)),
		now:         time.Now,
	}
}

// NewPostgresStore creates a SQLStore for a PostgreSQL connection.
func NewPostgresStore(conn *sql.DB) *SQLStore {
	return NewSQLStore(conn, db.Postgres)
}

// NewSQLiteStore creates a SQLStore for a SQLite connection.
func NewSQLiteStore(conn *sql.DB) *SQLStore {
	return NewSQLStore(conn, db.SQLite)
}

// Get retrieves the value stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key and stamps the row with the current time.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, s.setQuery, key, value, s.now().Unix()); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Remove deletes the row for key.
func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, s.removeQuery, key); err != nil {
		return fmt.Errorf("kv remove %q: %w", key, err)
	}
	return nil
}
