// Package api implements the Planboard REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/minhdang/planboard/internal/auth"
)

type ctxKey int

const actorKey ctxKey = iota

// Actor returns the authenticated username for a request, or "admin" when
// authentication is disabled or token-based.
func Actor(r *http.Request) string {
	if v, ok := r.Context().Value(actorKey).(string); ok && v != "" {
		return v
	}
	return "admin"
}

// AuthMiddleware returns middleware enforcing the configured auth mode.
//
//   - disabled: all requests pass through.
//   - token: requests must carry "Authorization: Bearer <static token>".
//   - session: the Bearer token must be a live session issued by /auth/login.
func AuthMiddleware(mode, token string, sessions *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch mode {
			case auth.ModeToken:
				bearer, ok := bearerToken(r)
				if !ok || bearer != token {
					writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
					return
				}
				next.ServeHTTP(w, r)

			case auth.ModeSession:
				bearer, ok := bearerToken(r)
				if !ok {
					writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
					return
				}
				sess, err := sessions.Validate(r.Context(), bearer)
				if err != nil {
					writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
					return
				}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, sess.Username)))

			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}
