package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/minhdang/planboard/internal/apperr"
)

// Activity handles GET /activity with limit/offset pagination and an
// optional menu_id filter. Each row carries the path its menu resolves to
// right now; rows whose menu was deleted come back flagged stale.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	menuID := q.Get("menu_id")

	entries, total, err := h.svc.Activity(r.Context(), limit, offset, menuID)
	if err != nil {
		slog.Error("list activity failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	items := make([]ActivityItem, len(entries))
	for i, e := range entries {
		items[i] = ActivityItem{ActionRecord: e.ActionRecord, Path: e.Path, Stale: e.Stale}
	}
	writeJSON(w, http.StatusOK, ActivityResponse{Activity: items, Total: total})
}

// Resolve handles GET /resolve?path=/some-slug. Resolution never fails; a
// path matching nothing yields a not-found outcome with status 200 and the
// client applies its redirect-home policy.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	route := h.svc.Resolve(r.Context(), path)
	writeJSON(w, http.StatusOK, route)
}

// Navigate handles GET /navigate/{recordID}: the stored action record's
// menu ID re-resolved to the menu's current path.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	target, err := h.svc.Navigate(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("navigate failed", slog.String("record_id", recordID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// Notifications handles GET /notifications.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.svc.Notifications(r.Context()),
	})
}

// MarkNotificationRead handles POST /notifications/{id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.svc.MarkNotificationRead(r.Context(), id) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
