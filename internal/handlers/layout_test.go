package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_LayoutHandlers(t *testing.T) {
	t.Parallel()

	const layoutBody = `{
		"layout": [{"i": "0", "x": 0, "y": 0, "w": 3, "h": 2}],
		"components": [{"type": "TextComponent", "data": {"text": "Hello"}, "x": 0, "y": 0, "w": 3, "h": 2}]
	}`

	t.Run("load before save is null", func(t *testing.T) {
		srv := startServer(t)

		resp, body := do(t, http.DefaultClient, http.MethodGet, srv.URL+"/api/layout/load", "")

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `null`, body)
	})

	t.Run("save and load latest", func(t *testing.T) {
		srv := startServer(t)

		resp, body := do(t, http.DefaultClient, http.MethodPost, srv.URL+"/api/layout/save", layoutBody)
		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

		var saved map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &saved))
		require.NotEmpty(t, saved["id"])
		require.NotEmpty(t, saved["createdAt"])

		resp, body = do(t, http.DefaultClient, http.MethodGet, srv.URL+"/api/layout/load", "")
		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

		var loaded map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &loaded))
		require.Equal(t, saved["id"], loaded["id"], "the latest saved layout should be loaded")
		require.Equal(t, []any{map[string]any{"i": "0", "x": 0.0, "y": 0.0, "w": 3.0, "h": 2.0}}, loaded["layout"])
		require.Equal(t, []any{map[string]any{
			"type": "TextComponent",
			"data": map[string]any{"text": "Hello"},
			"x":    0.0, "y": 0.0, "w": 3.0, "h": 2.0,
		}}, loaded["components"])
	})

	t.Run("save invalid layout", func(t *testing.T) {
		srv := startServer(t)

		resp, body := do(t, http.DefaultClient, http.MethodPost, srv.URL+"/api/layout/save",
			`{"layout": [{"i": "", "x": -1, "y": 0, "w": 3, "h": 2}]}`)

		require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
		require.JSONEq(t, `{
			"error": "validation_failed",
			"message": "Request validation failed",
			"fields": {
				"components": "This field is required",
				"i": "This field is required",
				"x": "Value must be greater than or equal to 0"
			}
		}`, body)
	})

	t.Run("templates", func(t *testing.T) {
		srv := startServer(t)

		resp, body := do(t, http.DefaultClient, http.MethodGet, srv.URL+"/api/layout/templates", "")

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		var templates []struct {
			Layout     []map[string]any `json:"layout"`
			Components []map[string]any `json:"components"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &templates))
		require.Len(t, templates, 2)
		require.Len(t, templates[0].Layout, 2)
		require.Equal(t, "TextComponent", templates[0].Components[0]["type"])
		require.Equal(t, map[string]any{"videoUrl": "https://www.youtube.com/embed/dQw4w9WgXcQ"}, templates[1].Components[1]["data"])
	})
}
