// Package db persists the companion's state as JSON documents in SQLite.
// The relationship state and the memory pools are each one single-row
// document with load-or-default semantics.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/yui-chat/yui-go/pkg/memory"
)

const (
	characterStateDoc = "character_state"
	memoryPoolsDoc    = "memory_pools"
)

// Store is a SQLite-backed document store plus an activity log.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (creating if needed) the database and its tables.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	// WAL keeps reads cheap during the per-turn writes.
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			body JSON NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS proactive_activity (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			subject TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_proactive_activity_created_at
			ON proactive_activity(created_at);
	`)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadDocument(ctx context.Context, name string, out any) (bool, error) {
	var body []byte
	err := s.db.GetContext(ctx, &body, `SELECT body FROM documents WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "loading document %q", name)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, errors.Wrapf(err, "decoding document %q", name)
	}
	return true, nil
}

func (s *Store) saveDocument(ctx context.Context, name string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encoding document %q", name)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, name, body)
	return errors.Wrapf(err, "saving document %q", name)
}

// LoadPools returns the persisted memory pools, or empty initialized pools.
func (s *Store) LoadPools(ctx context.Context) (*memory.Pools, error) {
	pools := memory.NewPools()
	found, err := s.loadDocument(ctx, memoryPoolsDoc, pools)
	if err != nil {
		return nil, err
	}
	if !found {
		return memory.NewPools(), nil
	}
	pools.Normalize()
	return pools, nil
}

// SavePools persists the memory pools document.
func (s *Store) SavePools(ctx context.Context, pools *memory.Pools) error {
	return s.saveDocument(ctx, memoryPoolsDoc, pools)
}
