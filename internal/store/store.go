// Package store persists UI layout state across reloads in a small
// sqlite key-value table. Every key lives under a fixed namespace
// prefix so unrelated rows can never collide with console state.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Prefix namespaces every key written by the console.
const Prefix = "proxmox-backup-ui."

type Store struct {
	*sql.DB
}

// Open creates a new sqlite-backed store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS ui_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, err
	}

	return &Store{db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Set stores a value under the namespaced key.
func (s *Store) Set(key, value string) error {
	stmt, err := s.Prepare(`
		INSERT OR REPLACE INTO ui_state (key, value) VALUES (?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(Prefix+key, value)
	return err
}

// Get retrieves a value by key.
func (s *Store) Get(key string) (string, error) {
	var value string

	err := s.QueryRow("SELECT value FROM ui_state WHERE key = ?", Prefix+key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("no state stored under key: %s", key)
		}
		return "", err
	}

	return value, nil
}

// Delete removes a key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	stmt, err := s.Prepare("DELETE FROM ui_state WHERE key = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(Prefix + key)
	return err
}

// List returns all stored keys with the namespace prefix stripped.
func (s *Store) List() ([]string, error) {
	rows, err := s.Query("SELECT key FROM ui_state WHERE key LIKE ? ORDER BY key", Prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, strings.TrimPrefix(key, Prefix))
	}

	return keys, rows.Err()
}
