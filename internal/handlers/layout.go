package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/oraweb/internal/handlers/render"
	"github.com/nkiryanov/oraweb/internal/logger"
	"github.com/nkiryanov/oraweb/internal/models"
)

type layoutResponse struct {
	ID         uuid.UUID          `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Layout     []models.GridItem  `json:"layout"`
	Components []models.Component `json:"components"`
}

func newLayoutResponse(l models.Layout) layoutResponse {
	return layoutResponse{ID: l.ID, CreatedAt: l.CreatedAt, Layout: l.Items, Components: l.Components}
}

func handleSaveLayout(layouts layoutService, logger logger.Logger) http.Handler {
	type gridItem struct {
		I string `json:"i" validate:"required"`
		X int    `json:"x" validate:"gte=0"`
		Y int    `json:"y" validate:"gte=0"`
		W int    `json:"w" validate:"gte=1"`
		H int    `json:"h" validate:"gte=1"`
	}
	type component struct {
		Type string         `json:"type" validate:"required"`
		Data map[string]any `json:"data"`
		X    int            `json:"x" validate:"gte=0"`
		Y    int            `json:"y" validate:"gte=0"`
		W    int            `json:"w" validate:"gte=0"`
		H    int            `json:"h" validate:"gte=0"`
	}
	type request struct {
		Layout     []gridItem  `json:"layout" validate:"dive"`
		Components []component `json:"components" validate:"required,dive"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		items := make([]models.GridItem, 0, len(data.Layout))
		for _, it := range data.Layout {
			items = append(items, models.GridItem(it))
		}
		components := make([]models.Component, 0, len(data.Components))
		for _, c := range data.Components {
			components = append(components, models.Component(c))
		}

		layout, err := layouts.Save(r.Context(), items, components)
		if err != nil {
			logger.Error("layout save failed", "error", err)
			render.ServiceError(w, "Error saving layout", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, newLayoutResponse(layout), http.StatusCreated)
	})
}

// Responds with JSON null if nothing saved yet
func handleLoadLayout(layouts layoutService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		layout, err := layouts.Latest(r.Context())
		if err != nil {
			logger.Error("layout load failed", "error", err)
			render.ServiceError(w, "Error loading layout", http.StatusInternalServerError)
			return
		}

		if layout == nil {
			render.JSON(w, nil)
			return
		}
		render.JSON(w, newLayoutResponse(*layout))
	})
}

func handleTemplates(layouts layoutService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, layouts.Templates())
	})
}
