package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/oraweb/internal/handlers/render"
	"github.com/nkiryanov/oraweb/internal/handlers/userctx"
)

func handleUserMe() http.Handler {
	type response struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{ID: user.ID, Name: user.Name, Email: user.Email})
	})
}
