package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minhdang/planboard/internal/models"
)

// AddComment appends a comment to a task and a comment.added activity row in
// the same transaction.
func (db *DB) AddComment(c models.Comment) (*models.Comment, error) {
	task, err := db.GetTask(c.TaskID)
	if err != nil {
		return nil, err
	}

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO comments (id, task_id, author, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.TaskID, c.Author, c.Body, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: insert comment: %w", err)
	}

	if err := appendActivity(tx, models.ActionRecord{
		Kind:    models.ActionCommentAdded,
		MenuID:  task.MenuID,
		TaskID:  task.ID,
		Actor:   c.Author,
		Message: c.Body,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return &c, nil
}

// ListComments returns a task's comments oldest first.
func (db *DB) ListComments(taskID string) ([]models.Comment, error) {
	rows, err := db.conn.Query(`
		SELECT id, task_id, author, body, created_at
		FROM comments WHERE task_id = ? ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("store: list comments: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
