// Package db maintains the whatis index: one row per generated page, queried
// by the apropos command and the MCP server.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

type DB struct {
	conn *sql.DB
}

// Entry is one whatis index row.
type Entry struct {
	Crate     string
	Version   string
	Qualified string
	Kind      string
	Section   int
	Summary   string
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_page_id START 1;`,

		`CREATE TABLE IF NOT EXISTS pages (
			id INTEGER PRIMARY KEY DEFAULT nextval('seq_page_id'),
			crate TEXT NOT NULL,
			version TEXT NOT NULL,
			qualified TEXT NOT NULL,
			kind TEXT NOT NULL,
			section INTEGER NOT NULL,
			summary TEXT NOT NULL,
			UNIQUE(crate, qualified)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_crate ON pages (crate)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_qualified ON pages (qualified)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// ReplaceCrate swaps a crate's whatis entries for a fresh generation run.
func (db *DB) ReplaceCrate(crate, version string, entries []Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pages WHERE crate = ?`, crate); err != nil {
		return fmt.Errorf("clearing crate entries: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO pages (crate, version, qualified, kind, section, summary)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(crate, version, e.Qualified, e.Kind, e.Section, e.Summary); err != nil {
			return fmt.Errorf("inserting %s: %w", e.Qualified, err)
		}
	}

	return tx.Commit()
}

// Apropos returns pages whose qualified name or summary contains the term,
// case-insensitively, ordered by qualified name.
func (db *DB) Apropos(term string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + term + "%"
	rows, err := db.conn.Query(`
		SELECT crate, version, qualified, kind, section, summary
		FROM pages
		WHERE qualified ILIKE ? OR summary ILIKE ?
		ORDER BY qualified
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Crate, &e.Version, &e.Qualified, &e.Kind, &e.Section, &e.Summary); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
