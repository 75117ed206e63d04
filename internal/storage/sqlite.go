package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "embed"

	errs "github.com/wrtgvr/rimdash-connect/internal/errors"
	_ "modernc.org/sqlite"
)

//go:embed sqlite/schema.sql
var sqliteSchema string

// SQLiteStorage is a KVStorage backed by a SQLite database file.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies pending
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY on concurrent commits
	db.SetMaxOpenConns(1)

	if err := migrateSQLite(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStorage{db: db}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	var userVersion int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&userVersion); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}

	versions := strings.Split(sqliteSchema, "-- NEW VERSION --\n")
	for i := userVersion; i < len(versions); i++ {
		if _, err := db.ExecContext(ctx, versions[i]); err != nil {
			return fmt.Errorf("cannot apply migration %d: %w", i, err)
		}
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", len(versions))); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err != nil {
		return "", sqliteErr(err, key)
	}
	return v, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return errs.NewInternalError(fmt.Errorf("failed to set value: key=%s, err=%w", key, err))
	}
	return nil
}

func (s *SQLiteStorage) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var unix int64
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&unix)
	if err != nil {
		return time.Time{}, sqliteErr(err, key)
	}
	return time.Unix(unix, 0), nil
}

func sqliteErr(err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return errs.NewInternalError(fmt.Errorf("sqlite query failed: key=%s, err=%w", key, err))
}
