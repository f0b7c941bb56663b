// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage provides the SQLite-backed place store. It serves as an
// auxiliary keyword-search source merged with the in-memory index results.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/worldjourney/travel-assistant/internal/catalog"
)

// Store handles queries to the SQLite places database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the places database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS places (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			city TEXT,
			description TEXT,
			map_url TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// Seed replaces the places table contents with the given destinations.
// Used by the startup seeding path and by tests.
func (s *Store) Seed(ctx context.Context, destinations []catalog.Destination) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM places"); err != nil {
		return fmt.Errorf("failed to clear places: %w", err)
	}

	insert := `INSERT INTO places (name, city, description, map_url) VALUES (?, ?, ?, ?)`
	for _, destination := range destinations {
		if strings.TrimSpace(destination.Name) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, insert,
			destination.Name, destination.City, destination.Description, destination.MapURL); err != nil {
			return fmt.Errorf("failed to insert place %q: %w", destination.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}

// SearchByKeyword returns places whose name, city, or description contains
// any whitespace-separated token of text. Results keep insertion order;
// limit <= 0 means unlimited.
func (s *Store) SearchByKeyword(ctx context.Context, text string, limit int) ([]catalog.Destination, error) {
	tokens := strings.Fields(strings.TrimSpace(text))
	if len(tokens) == 0 {
		return nil, nil
	}

	var conditions []string
	var args []interface{}
	for _, token := range tokens {
		conditions = append(conditions, "(name LIKE ? OR city LIKE ? OR description LIKE ?)")
		pattern := "%" + token + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query := "SELECT name, city, description, map_url FROM places WHERE " +
		strings.Join(conditions, " OR ") + " ORDER BY id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var results []catalog.Destination
	for rows.Next() {
		var d catalog.Destination
		var city, description, mapURL sql.NullString
		if err := rows.Scan(&d.Name, &city, &description, &mapURL); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		d.City = city.String
		d.Description = description.String
		d.MapURL = mapURL.String
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}
	return results, nil
}

// Count returns the number of stored places.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM places").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count places: %w", err)
	}
	return n, nil
}
