package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/minhdang/planboard/internal/apperr"
	"github.com/minhdang/planboard/internal/auth"
)

// LoginHandler serves POST /auth/login. It sits outside the auth middleware
// group; everything else requires the token it issues.
type LoginHandler struct {
	sessions *auth.Service
}

// NewLoginHandler creates a login handler.
func NewLoginHandler(sessions *auth.Service) *LoginHandler {
	return &LoginHandler{sessions: sessions}
}

// Login handles POST /auth/login.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	sess, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
			return
		}
		slog.Error("login failed", slog.String("username", req.Username), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     sess.Token,
		Username:  sess.Username,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	})
}
