package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/nkiryanov/oraweb/internal/handlers/render"
)

type errorLogger interface {
	Error(msg string, args ...any)
}

// RecoverMiddleware turns handler panic into 500 response
func RecoverMiddleware(l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Client went away, let net/http handle it silently
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				l.Error("panic while serving request", "method", r.Method, "uri", r.RequestURI, "panic", rec, "stack", string(debug.Stack()))
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
