// Package models defines the domain types for Planboard.
package models

import "time"

// Menu kinds.
const (
	KindTaskList     = "task-list"
	KindExternalLink = "external-link"
)

// Menu represents one navigable section of the board.
//
// ID is assigned at creation and never changes; Slug is the human-editable
// path segment and may be renamed at any time. Historical records reference
// menus by ID only, so links survive slug renames.
type Menu struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Order     int       `json:"order"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url,omitempty"` // external-link menus only
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a single board item belonging to a menu.
type Task struct {
	ID        string    `json:"id"`
	MenuID    string    `json:"menu_id"`
	Title     string    `json:"title"`
	Assignee  string    `json:"assignee,omitempty"`
	Deadline  string    `json:"deadline,omitempty"`
	Note      string    `json:"note,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a note attached to a task.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Action kinds recorded in the activity log.
const (
	ActionMenuCreated   = "menu.created"
	ActionMenuUpdated   = "menu.updated"
	ActionMenuDeleted   = "menu.deleted"
	ActionTaskCreated   = "task.created"
	ActionTaskUpdated   = "task.updated"
	ActionTaskDeleted   = "task.deleted"
	ActionTaskCompleted = "task.completed"
	ActionTaskReopened  = "task.reopened"
	ActionCommentAdded  = "comment.added"
)

// ActionRecord is an append-only activity-log row. It carries the menu's
// immutable ID, never its slug or a rendered path; the current path is
// re-resolved each time the record is displayed or navigated.
type ActionRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	MenuID    string    `json:"menu_id"`
	TaskID    string    `json:"task_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is an in-memory alert shown on the dashboard. Notifications
// are not persisted; they are pruned by age and count.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	MenuID    string    `json:"menu_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is an administrator login.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is an issued login token.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"-"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
