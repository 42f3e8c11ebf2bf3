// Package store provides SQLite persistence for the Pokedex.
//
// The database holds durable key-value slots. Each slot is a single named
// blob that callers rewrite wholesale (the favorites collection lives in one).
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get when a slot has never been written.
var ErrNotFound = errors.New("store: slot not found")

// Store is the SQLite-backed slot table. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // held across every statement and Close
}

// Slot is one stored key-value pair.
type Slot struct {
	Key     string
	Value   []byte
	Updated time.Time
}

// Open opens or creates the database at dbPath and migrates it.
// ":memory:" gives a private database that vanishes on Close.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every new connection to ":memory:" is a fresh database, so pin the
	// pool to one connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if err := enablePragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable pragmas: %w", err)
		}
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// enablePragmas puts file databases in WAL mode.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Close waits for running statements, then closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key and stamps it with the current time.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

// Delete removes a slot. A missing slot is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM slots WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

// Slots lists every slot ordered by key.
func (s *Store) Slots() ([]Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT key, value, updated_at FROM slots ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		if err := rows.Scan(&sl.Key, &sl.Value, &sl.Updated); err != nil {
			return nil, err
		}
		slots = append(slots, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}
