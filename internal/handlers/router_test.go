package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Router(t *testing.T) {
	t.Parallel()

	t.Run("root", func(t *testing.T) {
		srv := startServer(t)

		resp, body := do(t, http.DefaultClient, http.MethodGet, srv.URL+"/", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "Oraweb Backend Running", body)
		require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"), "security headers should be set")
	})

	t.Run("unknown path", func(t *testing.T) {
		srv := startServer(t)

		resp, _ := do(t, http.DefaultClient, http.MethodGet, srv.URL+"/unknown", "")

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("cors preflight", func(t *testing.T) {
		srv := startServer(t)
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/auth/login", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", frontendOrigin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Equal(t, frontendOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("metrics", func(t *testing.T) {
		srv := startServer(t)
		resp, _ := do(t, http.DefaultClient, http.MethodPost, srv.URL+"/api/auth/register",
			`{"name": "Nikita", "email": "nk@example.com", "password": "secret1"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := do(t, http.DefaultClient, http.MethodGet, srv.URL+"/metrics", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, `oraweb_http_requests_total{method="POST",route="POST /api/auth/register",status="200"} 1`)
		require.Contains(t, body, `oraweb_password_duration_seconds_count{op="hash"} 1`)
	})
}
