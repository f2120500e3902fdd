// Package boardservice coordinates the store, the menu directory, the SSE
// broker, and the notification center behind one service type.
package boardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minhdang/planboard/internal/directory"
	"github.com/minhdang/planboard/internal/models"
	"github.com/minhdang/planboard/internal/nav"
	"github.com/minhdang/planboard/internal/notify"
	"github.com/minhdang/planboard/internal/sse"
	"github.com/minhdang/planboard/internal/status"
	"github.com/minhdang/planboard/internal/store"
)

// ErrUnknownStatus is returned when a raw status string matches no known
// variant. The write is rejected; the value is never guessed.
var ErrUnknownStatus = errors.New("unknown status value")

// Service is the application core behind the HTTP and MCP surfaces.
type Service struct {
	db     store.Board
	dir    *directory.Directory
	broker *sse.Broker // optional
	notes  *notify.Center
}

// NewService creates a board service. broker may be nil (no event fan-out).
func NewService(db store.Board, dir *directory.Directory, broker *sse.Broker, notes *notify.Center) *Service {
	return &Service{db: db, dir: dir, broker: broker, notes: notes}
}

// Directory exposes the menu directory for read-side consumers.
func (s *Service) Directory() *directory.Directory {
	return s.dir
}

// RefreshDirectory reloads the menu snapshot from the store. A refresh that
// changes nothing notifies nobody. Called after every menu write and by the
// database watcher.
func (s *Service) RefreshDirectory() error {
	menus, err := s.db.ListMenus()
	if err != nil {
		return fmt.Errorf("refresh directory: %w", err)
	}
	if s.dir.Refresh(menus) && s.broker != nil {
		s.broker.PublishDirectoryUpdated()
	}
	return nil
}

// --- Menus ---

// CreateMenu persists a new menu and refreshes the directory.
func (s *Service) CreateMenu(_ context.Context, m models.Menu, actor string) (*models.Menu, error) {
	m.Slug = nav.NormalizePath(m.Slug)
	created, err := s.db.CreateMenu(m, actor)
	if err != nil {
		return nil, err
	}
	s.afterMenuWrite("menu.created", created.ID, created.Slug)
	s.notes.Add(fmt.Sprintf("Section %q created", created.Name), created.ID)
	return created, nil
}

// UpdateMenu persists menu edits (slug renames included) and refreshes the
// directory so every dependent immediately resolves the new slug.
func (s *Service) UpdateMenu(_ context.Context, m models.Menu, actor string) (*models.Menu, error) {
	m.Slug = nav.NormalizePath(m.Slug)
	updated, err := s.db.UpdateMenu(m, actor)
	if err != nil {
		return nil, err
	}
	s.afterMenuWrite("menu.updated", updated.ID, updated.Slug)
	return updated, nil
}

// DeleteMenu removes a menu. Activity rows keep referencing its ID and
// resolve to the fallback path from now on.
func (s *Service) DeleteMenu(_ context.Context, id, actor string) error {
	if err := s.db.DeleteMenu(id, actor); err != nil {
		return err
	}
	s.afterMenuWrite("menu.deleted", id, "")
	return nil
}

// GetMenu returns a menu by stable ID.
func (s *Service) GetMenu(_ context.Context, id string) (*models.Menu, error) {
	return s.db.GetMenu(id)
}

// ListMenus returns all menus in display order.
func (s *Service) ListMenus(_ context.Context) ([]models.Menu, error) {
	return s.db.ListMenus()
}

func (s *Service) afterMenuWrite(event, id, slug string) {
	if err := s.RefreshDirectory(); err != nil {
		slog.Warn("directory refresh failed", slog.String("error", err.Error()))
	}
	s.publish(event, map[string]string{"id": id, "slug": slug})
}

// --- Tasks ---

// CreateTask adds a task to a menu. RawStatus, when present, is normalized
// here at the write boundary.
func (s *Service) CreateTask(_ context.Context, t models.Task, rawStatus, actor string) (*models.Task, error) {
	if rawStatus != "" {
		done, ok := status.Normalize(rawStatus)
		if !ok {
			return nil, ErrUnknownStatus
		}
		t.Done = done
	}
	if _, err := s.db.GetMenu(t.MenuID); err != nil {
		return nil, err
	}
	created, err := s.db.CreateTask(t, actor)
	if err != nil {
		return nil, err
	}
	s.publish("task.created", map[string]string{"id": created.ID, "menu_id": created.MenuID})
	return created, nil
}

// UpdateTask edits a task's fields (not its done state).
func (s *Service) UpdateTask(_ context.Context, t models.Task, actor string) (*models.Task, error) {
	updated, err := s.db.UpdateTask(t, actor)
	if err != nil {
		return nil, err
	}
	s.publish("task.updated", map[string]string{"id": updated.ID, "menu_id": updated.MenuID})
	return updated, nil
}

// SetTaskStatus normalizes a raw status string and persists the resulting
// done flag together with its activity record.
func (s *Service) SetTaskStatus(_ context.Context, id, rawStatus, actor string) (*models.Task, error) {
	done, ok := status.Normalize(rawStatus)
	if !ok {
		return nil, ErrUnknownStatus
	}
	task, err := s.db.SetTaskDone(id, done, actor)
	if err != nil {
		return nil, err
	}
	event := "task.reopened"
	if task.Done {
		event = "task.completed"
		s.notes.Add(fmt.Sprintf("Task %q completed", task.Title), task.MenuID)
	}
	s.publish(event, map[string]string{"id": task.ID, "menu_id": task.MenuID})
	return task, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(_ context.Context, id, actor string) error {
	task, err := s.db.GetTask(id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteTask(id, actor); err != nil {
		return err
	}
	s.publish("task.deleted", map[string]string{"id": id, "menu_id": task.MenuID})
	return nil
}

// GetTask returns a task by ID.
func (s *Service) GetTask(_ context.Context, id string) (*models.Task, error) {
	return s.db.GetTask(id)
}

// ListTasks returns a menu's tasks.
func (s *Service) ListTasks(_ context.Context, menuID string) ([]models.Task, error) {
	if _, err := s.db.GetMenu(menuID); err != nil {
		return nil, err
	}
	return s.db.ListTasks(menuID)
}

// --- Comments ---

// AddComment appends a comment to a task.
func (s *Service) AddComment(_ context.Context, c models.Comment) (*models.Comment, error) {
	added, err := s.db.AddComment(c)
	if err != nil {
		return nil, err
	}
	s.publish("comment.added", map[string]string{"id": added.ID, "task_id": added.TaskID})
	s.notes.Add(fmt.Sprintf("New comment by %s", added.Author), "")
	return added, nil
}

// ListComments returns a task's comments.
func (s *Service) ListComments(_ context.Context, taskID string) ([]models.Comment, error) {
	if _, err := s.db.GetTask(taskID); err != nil {
		return nil, err
	}
	return s.db.ListComments(taskID)
}

// --- Activity & navigation ---

// ActivityEntry is an action record enriched with its live navigation
// target. Path reflects the menu's slug at read time, not at write time.
type ActivityEntry struct {
	models.ActionRecord
	Path  string `json:"path"`
	Stale bool   `json:"stale,omitempty"`
}

// Activity returns paginated activity rows, newest first, each resolved
// against the current directory.
func (s *Service) Activity(_ context.Context, limit, offset int, menuID string) ([]ActivityEntry, int, error) {
	rows, total, err := s.db.ListActivity(limit, offset, menuID)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]ActivityEntry, len(rows))
	for i, r := range rows {
		target := nav.NavigationTarget(r, s.dir)
		entries[i] = ActivityEntry{ActionRecord: r, Path: target.Path, Stale: target.Stale}
	}
	return entries, total, nil
}

// Resolve maps a request path to a route outcome against the live snapshot.
func (s *Service) Resolve(_ context.Context, path string) nav.Route {
	return nav.Resolve(path, s.dir)
}

// Navigate resolves a stored action record to its current path.
func (s *Service) Navigate(_ context.Context, recordID string) (nav.Target, error) {
	record, err := s.db.GetActionRecord(recordID)
	if err != nil {
		return nav.Target{}, err
	}
	return nav.NavigationTarget(*record, s.dir), nil
}

// --- Notifications ---

// Notifications returns the in-memory notification list.
func (s *Service) Notifications(_ context.Context) []models.Notification {
	return s.notes.List()
}

// MarkNotificationRead flags a notification as read.
func (s *Service) MarkNotificationRead(_ context.Context, id string) bool {
	return s.notes.MarkRead(id)
}

func (s *Service) publish(event string, data map[string]string) {
	if s.broker != nil {
		s.broker.Publish(sse.Event{Type: event, Data: data})
	}
}
