package index

import (
	"fmt"
	"time"

	"github.com/starford/relink/internal/models"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	UpdatedAt time.Time
}

// RecordEvent appends one event to the ledger.
func (db *DB) RecordEvent(ev models.Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO events (run_id, stage, kind, path, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.RunID, ev.Stage, ev.Kind, ev.Path, ev.Detail, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("index: record event: %w", err)
	}
	return nil
}

// Events returns the events of one run in insertion order.
func (db *DB) Events(runID string) ([]models.Event, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, stage, kind, path, detail, created_at
		FROM events
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("index: events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.RunID, &ev.Stage, &ev.Kind, &ev.Path, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// UpsertNote inserts or replaces a note with its aliases and links within a transaction.
func (db *DB) UpsertNote(n NoteRow, aliases, links []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM aliases WHERE path = ?`, n.Path); err != nil {
		return fmt.Errorf("index: clear aliases: %w", err)
	}
	for _, a := range aliases {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO aliases (path, alias) VALUES (?, ?)`, n.Path, a); err != nil {
			return fmt.Errorf("index: insert alias: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM links WHERE source = ?`, n.Path); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(n.Path, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note with its aliases and outgoing links.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM aliases WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	return tx.Commit()
}

// AllChecksums returns path → checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// DanglingLinks returns links whose target matches no note title or alias.
func (db *DB) DanglingLinks() ([]models.Link, error) {
	rows, err := db.conn.Query(`
		SELECT l.source, l.target
		FROM links l
		WHERE NOT EXISTS (SELECT 1 FROM notes n WHERE n.title = l.target)
		  AND NOT EXISTS (SELECT 1 FROM aliases a WHERE a.alias = l.target)
		ORDER BY l.source, l.target
	`)
	if err != nil {
		return nil, fmt.Errorf("index: dangling links: %w", err)
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.Source, &l.Target); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
