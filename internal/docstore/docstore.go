// Package docstore persists whole JSON documents per key, like a browser's local storage. Documents are
// always overwritten wholesale and a document that fails to decode is treated as absent.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitcoach/internal/sqlite"
)

// Key builds the storage key of a document kind for a user, such as progress:<uid>.
func Key(kind, userID string) string {
	return kind + ":" + userID
}

// Store reads and writes documents in the documents table.
type Store struct {
	db     *sqlite.Database
	logger *slog.Logger
	now    func() time.Time
}

func New(db *sqlite.Database, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// GetRaw returns the stored bytes of key. A missing document is reported with ok false and a nil error.
func (s *Store) GetRaw(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.ReadOnly.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select document %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// PutRaw overwrites key with data.
func (s *Store) PutRaw(ctx context.Context, key string, data []byte) error {
	return putRaw(ctx, s.db.ReadWrite, key, data, s.now())
}

// Put encodes v as JSON and overwrites key with it.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", key, err)
	}
	return s.PutRaw(ctx, key, data)
}

// Delete removes key. Deleting a missing document is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ReadWrite.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete document %s: %w", key, err)
	}
	return nil
}

// Get decodes the document at key into a T. Absent and undecodable documents both yield ok false; the latter is
// logged as a warning.
func Get[T any](ctx context.Context, s *Store, key string) (T, bool, error) {
	var zero T
	data, ok, err := s.GetRaw(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, ok := decode[T](ctx, s.logger, key, data)
	return v, ok, nil
}

// Update runs a read-modify-write of key inside a single write transaction so that concurrent updates of the
// same document within this process are serialised. fn receives the current document, or the zero value and
// false when it is absent or corrupt, and returns the document to store.
func Update[T any](ctx context.Context, s *Store, key string, fn func(current T, found bool) (T, error)) (T, error) {
	var zero T
	tx, err := s.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin transaction: %w", err)
	}
	defer s.db.Rollback(ctx, tx)()

	var (
		current T
		found   bool
		value   string
	)
	err = tx.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return zero, fmt.Errorf("select document %s: %w", key, err)
	default:
		current, found = decode[T](ctx, s.logger, key, []byte(value))
	}

	next, err := fn(current, found)
	if err != nil {
		return zero, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return zero, fmt.Errorf("marshal document %s: %w", key, err)
	}
	if err = putRaw(ctx, tx, key, data, s.now()); err != nil {
		return zero, err
	}
	if err = tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit document %s: %w", key, err)
	}
	return next, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putRaw(ctx context.Context, db execer, key string, data []byte, now time.Time) error {
	if _, err := db.ExecContext(ctx, `INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), now.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("upsert document %s: %w", key, err)
	}
	return nil
}

func decode[T any](ctx context.Context, logger *slog.Logger, key string, data []byte) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "discarding corrupt document",
			slog.String("key", key), slog.Any("error", err))
		var zero T
		return zero, false
	}
	return v, true
}
