package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minhdang/planboard/internal/apperr"
	"github.com/minhdang/planboard/internal/models"
)

// CreateTask inserts a task under a menu and appends a task.created activity
// row in the same transaction.
func (db *DB) CreateTask(t models.Task, actor string) (*models.Task, error) {
	t.ID = uuid.NewString()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO tasks (id, menu_id, title, assignee, deadline, note, done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.MenuID, t.Title, t.Assignee, t.Deadline, t.Note, t.Done, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: insert task: %w", err)
	}

	if err := appendActivity(tx, models.ActionRecord{
		Kind:    models.ActionTaskCreated,
		MenuID:  t.MenuID,
		TaskID:  t.ID,
		Actor:   actor,
		Message: t.Title,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return &t, nil
}

// UpdateTask updates a task's editable fields and appends a task.updated
// activity row. Done state is changed through SetTaskDone, not here.
func (db *DB) UpdateTask(t models.Task, actor string) (*models.Task, error) {
	existing, err := db.GetTask(t.ID)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		UPDATE tasks SET title = ?, assignee = ?, deadline = ?, note = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, t.Assignee, t.Deadline, t.Note, t.UpdatedAt, t.ID)
	if err != nil {
		return nil, fmt.Errorf("store: update task: %w", err)
	}

	if err := appendActivity(tx, models.ActionRecord{
		Kind:    models.ActionTaskUpdated,
		MenuID:  existing.MenuID,
		TaskID:  t.ID,
		Actor:   actor,
		Message: t.Title,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return db.GetTask(t.ID)
}

// SetTaskDone sets the done flag and appends a task.completed or
// task.reopened activity row in the same transaction.
func (db *DB) SetTaskDone(id string, done bool, actor string) (*models.Task, error) {
	existing, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`UPDATE tasks SET done = ?, updated_at = ? WHERE id = ?`,
		done, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("store: set task done: %w", err)
	}

	kind := models.ActionTaskReopened
	if done {
		kind = models.ActionTaskCompleted
	}
	if err := appendActivity(tx, models.ActionRecord{
		Kind:    kind,
		MenuID:  existing.MenuID,
		TaskID:  id,
		Actor:   actor,
		Message: existing.Title,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return db.GetTask(id)
}

// DeleteTask removes a task (comments cascade) and appends a task.deleted
// activity row.
func (db *DB) DeleteTask(id, actor string) error {
	existing, err := db.GetTask(id)
	if err != nil {
		return err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}

	if err := appendActivity(tx, models.ActionRecord{
		Kind:    models.ActionTaskDeleted,
		MenuID:  existing.MenuID,
		TaskID:  id,
		Actor:   actor,
		Message: existing.Title,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// GetTask returns a single task by ID.
func (db *DB) GetTask(id string) (*models.Task, error) {
	var t models.Task
	err := db.conn.QueryRow(`
		SELECT id, menu_id, title, assignee, deadline, note, done, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.MenuID, &t.Title, &t.Assignee, &t.Deadline, &t.Note, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	return &t, nil
}

// ListTasks returns all tasks for a menu, pending first, newest first within
// each group.
func (db *DB) ListTasks(menuID string) ([]models.Task, error) {
	rows, err := db.conn.Query(`
		SELECT id, menu_id, title, assignee, deadline, note, done, created_at, updated_at
		FROM tasks WHERE menu_id = ?
		ORDER BY done, created_at DESC
	`, menuID)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.MenuID, &t.Title, &t.Assignee, &t.Deadline, &t.Note, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
