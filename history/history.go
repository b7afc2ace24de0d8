// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/history.go
// Summary: SQLite-backed store of commands run through the terminal.
// Usage: The frontend's search box recalls recent commands from here.
// Notes: Re-adding an existing command moves it to the front (most recent).

package history

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultLimit is the number of commands retained when none is given.
const DefaultLimit = 20

// minCommandLen filters out accidental one-character entries.
const minCommandLen = 2

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	command   TEXT    NOT NULL UNIQUE,
	last_used INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commands_last_used ON commands(last_used DESC);
`

// Store is a bounded most-recent-first command history.
type Store struct {
	db  *sql.DB
	max int
}

// Open opens (creating if necessary) the history database at path. A max
// of 0 uses DefaultLimit.
func Open(path string, max int) (*Store, error) {
	if max <= 0 {
		max = DefaultLimit
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db, max: max}, nil
}

// Add records a command as most recently used, pruning the oldest entries
// beyond the store limit. Blank or too-short commands are ignored.
func (s *Store) Add(command string) error {
	command = strings.TrimSpace(command)
	if len(command) < minCommandLen {
		return nil
	}
	// last_used is a sequence, not a timestamp: fast consecutive commands
	// would collide at wall-clock resolution.
	_, err := s.db.Exec(`
		INSERT INTO commands (command, last_used)
		VALUES (?, (SELECT COALESCE(MAX(last_used), 0) + 1 FROM commands))
		ON CONFLICT(command) DO UPDATE SET last_used = excluded.last_used`,
		command)
	if err != nil {
		return fmt.Errorf("record command: %w", err)
	}
	_, err = s.db.Exec(`
		DELETE FROM commands WHERE id NOT IN (
			SELECT id FROM commands ORDER BY last_used DESC, id DESC LIMIT ?
		)`, s.max)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Recent returns up to limit commands, most recently used first.
func (s *Store) Recent(limit int) ([]string, error) {
	if limit <= 0 || limit > s.max {
		limit = s.max
	}
	rows, err := s.db.Query(`
		SELECT command FROM commands ORDER BY last_used DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// Search returns commands containing the given substring, most recent
// first.
func (s *Store) Search(query string, limit int) ([]string, error) {
	if limit <= 0 || limit > s.max {
		limit = s.max
	}
	rows, err := s.db.Query(`
		SELECT command FROM commands
		WHERE command LIKE '%' || ? || '%'
		ORDER BY last_used DESC, id DESC LIMIT ?`,
		query, limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func collect(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, cmd)
	}
	return out, rows.Err()
}
