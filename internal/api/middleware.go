// Package api implements the Daybook REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/starford/daybook/internal/account"
)

type contextKey string

const userContextKey contextKey = "daybook.user"

// SessionMiddleware resolves the "Authorization: Bearer <token>" header
// to a username and stores it on the request context. Requests without
// a valid session are rejected.
func SessionMiddleware(sessions *account.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			user, ok := sessions.Resolve(token)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

// requestUser returns the username the session middleware attached.
func requestUser(r *http.Request) string {
	user, _ := r.Context().Value(userContextKey).(string)
	return user
}
