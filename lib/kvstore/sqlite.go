package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// SqliteStore persists the mapping in a single sqlite table so it survives
// restarts and can be inspected by other processes.
type SqliteStore struct {
	notifier
	db *sql.DB
}

func OpenSqliteStore(path string) (*SqliteStore, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(Schema)
	if err != nil {
		database.Close()
		return nil, err
	}
	return &SqliteStore{db: database}, nil
}

// NewSqliteStore wraps an existing database handle, applying the schema.
func NewSqliteStore(database *sql.DB) (*SqliteStore, error) {
	_, err := database.Exec(Schema)
	if err != nil {
		return nil, err
	}
	return &SqliteStore{db: database}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	rows, err := s.db.QueryContext(
		ctx,
		"SELECT key, value FROM kv WHERE key IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows)
}

func (s *SqliteStore) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM kv")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows)
}

func collectRows(rows *sql.Rows) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	for rows.Next() {
		var key, value string
		err := rows.Scan(&key, &value)
		if err != nil {
			return nil, err
		}
		out[key] = json.RawMessage(value)
	}
	return out, rows.Err()
}

func (s *SqliteStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	old, err := s.getOne(ctx, key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return err
	}

	s.publish([]Change{{Key: key, Old: old, New: value}})
	return nil
}

func (s *SqliteStore) getOne(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(value), nil
}

func (s *SqliteStore) Delete(ctx context.Context, key string) error {
	old, err := s.getOne(ctx, key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return err
	}

	if old != nil {
		s.publish([]Change{{Key: key, Old: old}})
	}
	return nil
}

func (s *SqliteStore) Clear(ctx context.Context) error {
	existing, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM kv")
	if err != nil {
		return err
	}

	changes := make([]Change, 0, len(existing))
	for key, old := range existing {
		changes = append(changes, Change{Key: key, Old: old})
	}
	s.publish(changes)
	return nil
}
