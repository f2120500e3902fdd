package api

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/minhdang/planboard/internal/models"
	"github.com/minhdang/planboard/internal/nav"
)

// MenuRequest is the request body for creating or updating a menu. Slug is
// normalized before validation, so mixed-case input is accepted and stored
// canonical.
type MenuRequest struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
	Kind  string `json:"kind"`
	URL   string `json:"url"`
}

// Validate checks slug format, the reserved-name set, and kind. Reserved
// slugs are rejected here, at write time; the resolver never has to
// arbitrate a collision with a static route.
func (r MenuRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.Required, validation.By(slugRule)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Kind, validation.Required, validation.In(models.KindTaskList, models.KindExternalLink)),
		validation.Field(&r.URL, validation.Required.When(r.Kind == models.KindExternalLink)),
	)
}

func slugRule(value interface{}) error {
	s, _ := value.(string)
	if !nav.ValidSlug(s) {
		return errors.New("must be lowercase letters, digits and hyphens")
	}
	if nav.ReservedSlug(s) {
		return errors.New("collides with a reserved page name")
	}
	return nil
}

// TaskRequest is the request body for creating or updating a task. Status
// accepts any known variant ("done", "hoàn thành", "pending", ...) and is
// normalized once on ingest.
type TaskRequest struct {
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	Deadline string `json:"deadline"`
	Note     string `json:"note"`
	Status   string `json:"status"`
}

// Validate checks the task payload.
func (r TaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
	)
}

// StatusRequest carries a raw status string for the toggle endpoint.
type StatusRequest struct {
	Status string `json:"status"`
}

// Validate checks the status payload.
func (r StatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

// CommentRequest is the request body for adding a comment.
type CommentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// Validate checks the comment payload.
func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 2000)),
	)
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// MenuListResponse wraps menu listings.
type MenuListResponse struct {
	Menus []models.Menu `json:"menus"`
}

// TaskListResponse wraps task listings.
type TaskListResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// ActivityResponse wraps paginated activity listings.
type ActivityResponse struct {
	Activity []ActivityItem `json:"activity"`
	Total    int            `json:"total"`
}

// ActivityItem is an action record enriched with its current path.
type ActivityItem struct {
	models.ActionRecord
	Path  string `json:"path"`
	Stale bool   `json:"stale,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
}
