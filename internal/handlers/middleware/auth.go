package middleware

import (
	"context"
	"net/http"

	"github.com/nkiryanov/oraweb/internal/handlers/render"
	"github.com/nkiryanov/oraweb/internal/handlers/userctx"
	"github.com/nkiryanov/oraweb/internal/models"
)

type authService interface {
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

// AuthMiddleware lets request through only if it carries valid access token
// Authenticated user is available with userctx.FromContext
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Auth(r.Context(), r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
