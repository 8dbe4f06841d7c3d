// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrViewNotFound reports a lookup by a title no saved view carries.
	ErrViewNotFound = errors.New("saved view not found")

	// ErrEmptyTitle rejects saving a view with no usable title.
	ErrEmptyTitle = errors.New("saved view title is empty")
)

// =============================================================================
// SAVED VIEW
// =============================================================================

// SavedView is one persisted view configuration. The field order is the
// on-disk column order; restoring replays these fields through the
// controller construction sequence in the same order.
type SavedView struct {
	ID         string
	Title      string
	CubePath   string
	Frame      string
	Integrated bool
	Plane      int
	Palette    string
	Contours   string // comma-separated canonical level strings
	XMin       float64
	XMax       float64
	YMin       float64
	YMax       float64
	VMin       float64
	VMax       float64
	Background string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContourLevels splits the stored contour field back into level tokens.
// An empty field yields nil.
func (v *SavedView) ContourLevels() []string {
	if strings.TrimSpace(v.Contours) == "" {
		return nil
	}
	parts := strings.Split(v.Contours, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normTitle canonicalizes a title for uniqueness checks. Titles typed on
// different platforms may differ only in Unicode composition.
func normTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS views (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL UNIQUE,
	cube_path   TEXT NOT NULL,
	frame       TEXT NOT NULL,
	integrated  INTEGER NOT NULL,
	plane       INTEGER NOT NULL,
	palette     TEXT NOT NULL,
	contours    TEXT NOT NULL,
	x_min       REAL NOT NULL,
	x_max       REAL NOT NULL,
	y_min       REAL NOT NULL,
	y_max       REAL NOT NULL,
	v_min       REAL NOT NULL,
	v_max       REAL NOT NULL,
	background  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_views_title ON views(title);
`

// Store is the saved-view database. Safe for the single interaction
// goroutine that owns it; database/sql serializes the rest.
type Store struct {
	db *sql.DB
}

// Open opens or creates the views database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open views database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts the view, or replaces the existing view with the same
// normalized title. A new view gets a fresh ID and creation timestamp;
// a replacement keeps both.
func (s *Store) Save(v SavedView) error {
	v.Title = normTitle(v.Title)
	if v.Title == "" {
		return ErrEmptyTitle
	}

	now := time.Now().UTC()
	v.UpdatedAt = now

	existing, err := s.Get(v.Title)
	switch {
	case err == nil:
		v.ID = existing.ID
		v.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrViewNotFound):
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		v.CreatedAt = now
	default:
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO views
		(id, title, cube_path, frame, integrated, plane, palette, contours,
		 x_min, x_max, y_min, y_max, v_min, v_max, background,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Title, v.CubePath, v.Frame, boolInt(v.Integrated), v.Plane,
		v.Palette, v.Contours,
		v.XMin, v.XMax, v.YMin, v.YMax, v.VMin, v.VMax, v.Background,
		v.CreatedAt.Format(time.RFC3339Nano), v.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save view %q: %w", v.Title, err)
	}
	return nil
}

// Get returns the saved view with the given title.
func (s *Store) Get(title string) (*SavedView, error) {
	row := s.db.QueryRow(`
		SELECT id, title, cube_path, frame, integrated, plane, palette,
		       contours, x_min, x_max, y_min, y_max, v_min, v_max,
		       background, created_at, updated_at
		FROM views WHERE title = ?`, normTitle(title))
	v, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrViewNotFound, title)
	}
	return v, err
}

// List returns every saved view ordered by most recent update.
func (s *Store) List() ([]SavedView, error) {
	rows, err := s.db.Query(`
		SELECT id, title, cube_path, frame, integrated, plane, palette,
		       contours, x_min, x_max, y_min, y_max, v_min, v_max,
		       background, created_at, updated_at
		FROM views ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var out []SavedView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// Delete removes the saved view with the given title.
func (s *Store) Delete(title string) error {
	res, err := s.db.Exec(`DELETE FROM views WHERE title = ?`, normTitle(title))
	if err != nil {
		return fmt.Errorf("failed to delete view %q: %w", title, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrViewNotFound, title)
	}
	return nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanView(row scanner) (*SavedView, error) {
	var v SavedView
	var integrated int
	var created, updated string
	err := row.Scan(&v.ID, &v.Title, &v.CubePath, &v.Frame, &integrated,
		&v.Plane, &v.Palette, &v.Contours,
		&v.XMin, &v.XMax, &v.YMin, &v.YMax, &v.VMin, &v.VMax,
		&v.Background, &created, &updated)
	if err != nil {
		return nil, err
	}
	v.Integrated = integrated != 0
	if v.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("bad created_at for view %q: %w", v.Title, err)
	}
	if v.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("bad updated_at for view %q: %w", v.Title, err)
	}
	return &v, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
