package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minhdang/planboard/internal/apperr"
	"github.com/minhdang/planboard/internal/models"
)

// CreateMenu inserts a new menu and appends a menu.created activity row in
// the same transaction. The menu's ID is assigned here and never changes.
func (db *DB) CreateMenu(m models.Menu, actor string) (*models.Menu, error) {
	m.ID = uuid.NewString()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO menus (id, slug, name, icon, ord, kind, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Slug, m.Name, m.Icon, m.Order, m.Kind, m.URL, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, fmt.Errorf("store: insert menu: %w", err)
	}

	if err := appendActivity(tx, models.ActionRecord{
		Kind:    models.ActionMenuCreated,
		MenuID:  m.ID,
		Actor:   actor,
		Message: m.Name,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return &m, nil
}

// UpdateMenu updates a menu's mutable fields (slug included) and appends a
// menu.updated activity row. The id column is never touched.
func (db *DB) UpdateMenu(m models.Menu, actor string) (*models.Menu, error) {
	m.UpdatedAt = time.Now().UTC()

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`
		UPDATE menus SET slug = ?, name = ?, icon = ?, ord = ?, kind = ?, url = ?, updated_at = ?
		WHERE id = ?
	`, m.Slug, m.Name, m.Icon, m.Order, m.Kind, m.URL, m.UpdatedAt, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrConflict
		}
		return nil, fmt.Errorf("store: update menu: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}

	if err := appendActivity(tx, models.ActionRecord{
		Kind:    models.ActionMenuUpdated,
		MenuID:  m.ID,
		Actor:   actor,
		Message: m.Name,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return db.GetMenu(m.ID)
}

// DeleteMenu removes a menu (tasks and comments cascade) and appends a
// menu.deleted activity row. Existing activity rows keep their menu_id; they
// become stale references resolved to the fallback path.
func (db *DB) DeleteMenu(id, actor string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM menus WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete menu: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}

	if err := appendActivity(tx, models.ActionRecord{
		Kind:   models.ActionMenuDeleted,
		MenuID: id,
		Actor:  actor,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// GetMenu returns a single menu by its stable ID.
func (db *DB) GetMenu(id string) (*models.Menu, error) {
	row := db.conn.QueryRow(`
		SELECT id, slug, name, icon, ord, kind, url, created_at, updated_at
		FROM menus WHERE id = ?
	`, id)
	return scanMenu(row)
}

// GetMenuBySlug returns a single menu by its current slug.
func (db *DB) GetMenuBySlug(slug string) (*models.Menu, error) {
	row := db.conn.QueryRow(`
		SELECT id, slug, name, icon, ord, kind, url, created_at, updated_at
		FROM menus WHERE slug = ?
	`, slug)
	return scanMenu(row)
}

// ListMenus returns all menus ordered by their display order.
func (db *DB) ListMenus() ([]models.Menu, error) {
	rows, err := db.conn.Query(`
		SELECT id, slug, name, icon, ord, kind, url, created_at, updated_at
		FROM menus ORDER BY ord, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list menus: %w", err)
	}
	defer rows.Close()

	var out []models.Menu
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(&m.ID, &m.Slug, &m.Name, &m.Icon, &m.Order, &m.Kind, &m.URL, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenu(row rowScanner) (*models.Menu, error) {
	var m models.Menu
	err := row.Scan(&m.ID, &m.Slug, &m.Name, &m.Icon, &m.Order, &m.Kind, &m.URL, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan menu: %w", err)
	}
	return &m, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
