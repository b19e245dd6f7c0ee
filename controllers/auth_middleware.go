package controllers

import (
	"context"
	"net/http"
	"strings"

	"pairplan_server/services"

	"github.com/gorilla/mux"
)

type contextKey string

const callerIDKey contextKey = "callerId"

// AuthMiddleware resolves the bearer token to a profile and stashes the
// caller's userId in the request context.
func AuthMiddleware(accounts *services.AccountService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, services.ErrUnauthorized)
				return
			}

			profile, err := accounts.CurrentUser(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), callerIDKey, profile.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID returns the authenticated userId set by AuthMiddleware.
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(callerIDKey).(string)
	return id
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer"))
}
