package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhdang/planboard/internal/auth"
	"github.com/minhdang/planboard/internal/boardservice"
)

// NewRouter creates a chi router with all API routes mounted.
// mode/token come from the auth config; sessions is required in session
// mode and ignored otherwise. sseHandler, if non-nil, is mounted at
// GET /events inside the auth group.
func NewRouter(svc *boardservice.Service, sessions *auth.Service, mode, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Login stays outside the auth group: it is how tokens are obtained.
	if sessions != nil {
		lh := NewLoginHandler(sessions)
		r.Post("/auth/login", lh.Login)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(mode, token, sessions))

		// Menus CRUD.
		r.Get("/menus", h.ListMenus)
		r.Post("/menus", h.CreateMenu)
		r.Get("/menus/{id}", h.GetMenu)
		r.Put("/menus/{id}", h.UpdateMenu)
		r.Delete("/menus/{id}", h.DeleteMenu)

		// Tasks.
		r.Get("/menus/{id}/tasks", h.ListTasks)
		r.Post("/menus/{id}/tasks", h.CreateTask)
		r.Get("/tasks/{id}", h.GetTask)
		r.Put("/tasks/{id}", h.UpdateTask)
		r.Post("/tasks/{id}/status", h.SetTaskStatus)
		r.Delete("/tasks/{id}", h.DeleteTask)

		// Comments.
		r.Get("/tasks/{id}/comments", h.ListComments)
		r.Post("/tasks/{id}/comments", h.AddComment)

		// Activity log and navigation.
		r.Get("/activity", h.Activity)
		r.Get("/resolve", h.Resolve)
		r.Get("/navigate/{recordID}", h.Navigate)

		// Notifications.
		r.Get("/notifications", h.Notifications)
		r.Post("/notifications/{id}/read", h.MarkNotificationRead)

		// SSE endpoint (protected by same auth middleware).
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
