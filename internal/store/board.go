package store

import "github.com/minhdang/planboard/internal/models"

// Board defines the interface for board persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Board interface {
	CreateMenu(m models.Menu, actor string) (*models.Menu, error)
	UpdateMenu(m models.Menu, actor string) (*models.Menu, error)
	DeleteMenu(id, actor string) error
	GetMenu(id string) (*models.Menu, error)
	GetMenuBySlug(slug string) (*models.Menu, error)
	ListMenus() ([]models.Menu, error)

	CreateTask(t models.Task, actor string) (*models.Task, error)
	UpdateTask(t models.Task, actor string) (*models.Task, error)
	SetTaskDone(id string, done bool, actor string) (*models.Task, error)
	DeleteTask(id, actor string) error
	GetTask(id string) (*models.Task, error)
	ListTasks(menuID string) ([]models.Task, error)

	AddComment(c models.Comment) (*models.Comment, error)
	ListComments(taskID string) ([]models.Comment, error)

	GetActionRecord(id string) (*models.ActionRecord, error)
	ListActivity(limit, offset int, menuID string) ([]models.ActionRecord, int, error)

	CreateAccount(username string, passwordHash []byte) (*models.Account, error)
	GetAccountByUsername(username string) (*models.Account, error)
	CreateSession(s models.Session) error
	GetSession(token string) (*models.Session, error)
	DeleteExpiredSessions() error

	Close() error
}

// Verify *DB satisfies Board at compile time.
var _ Board = (*DB)(nil)
