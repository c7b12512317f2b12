// Package web - executor injection middleware
//
// EDUCATIONAL NOTES:
// ------------------
// Context-based dependency injection is a common Go HTTP pattern:
//
// 1. Outer middleware injects dependencies into request context
// 2. Handlers retrieve dependencies from context when needed
// 3. Inner middleware can require dependencies and fail fast if missing
//
// This approach keeps handlers decoupled from global state and makes
// testing easier (inject a test executor without touching every handler
// signature).
package web

import (
	"context"
	"net/http"

	"teachdb/internal/query"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// executorKey is the context key for storing the query executor.
const executorKey contextKey = "executor"

// WithExecutor returns middleware that injects exec into the request
// context. Handlers retrieve it using GetExecutor.
func WithExecutor(exec *query.Executor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), executorKey, exec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetExecutor retrieves the query executor from the request context.
// Returns nil if the executor was not set (middleware not applied) or
// the server was built with a nil executor.
func GetExecutor(r *http.Request) *query.Executor {
	exec, _ := r.Context().Value(executorKey).(*query.Executor)
	return exec
}

// RequireExecutor returns middleware that ensures an executor is present
// in the request context. If not found, it returns 503 Service Unavailable.
func RequireExecutor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetExecutor(r) == nil {
			writeError(w, http.StatusServiceUnavailable, "database not initialized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
