package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minhdang/planboard/internal/models"
)

// appendActivity inserts an activity row inside an existing transaction so
// the record commits atomically with the write it describes.
func appendActivity(tx *sql.Tx, r models.ActionRecord) error {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	_, err := tx.Exec(`
		INSERT INTO activity (id, kind, menu_id, task_id, actor, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Kind, r.MenuID, r.TaskID, r.Actor, r.Message, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: append activity: %w", err)
	}
	return nil
}

// GetActionRecord returns a single activity row by ID.
func (db *DB) GetActionRecord(id string) (*models.ActionRecord, error) {
	var r models.ActionRecord
	err := db.conn.QueryRow(`
		SELECT id, kind, menu_id, task_id, actor, message, created_at
		FROM activity WHERE id = ?
	`, id).Scan(&r.ID, &r.Kind, &r.MenuID, &r.TaskID, &r.Actor, &r.Message, &r.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, "store: get activity")
	}
	return &r, nil
}

// ListActivity returns activity rows newest first, optionally filtered by
// menu, with limit/offset pagination. Total counts rows matching the filter.
func (db *DB) ListActivity(limit, offset int, menuID string) ([]models.ActionRecord, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if menuID != "" {
		where = "WHERE menu_id = ?"
		args = append(args, menuID)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM activity `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count activity: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(`
		SELECT id, kind, menu_id, task_id, actor, message, created_at
		FROM activity `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list activity: %w", err)
	}
	defer rows.Close()

	var out []models.ActionRecord
	for rows.Next() {
		var r models.ActionRecord
		if err := rows.Scan(&r.ID, &r.Kind, &r.MenuID, &r.TaskID, &r.Actor, &r.Message, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
