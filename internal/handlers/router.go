package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/oraweb/internal/handlers/middleware"
	"github.com/nkiryanov/oraweb/internal/logger"
	"github.com/nkiryanov/oraweb/internal/metrics"
	"github.com/nkiryanov/oraweb/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	// Origins allowed to call API from browser with credentials
	CORSOrigins []string

	// If set requests are measured and exposed on /metrics
	Metrics         *metrics.Metrics
	MetricsExporter http.Handler
}

func NewRouter(
	cfg RouterConfig,
	authService authService,
	layoutService layoutService,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)

	mux := http.NewServeMux()

	mux.Handle("GET /{$}", handleRoot())
	if cfg.MetricsExporter != nil {
		mux.Handle("GET /metrics", cfg.MetricsExporter)
	}

	mux.Handle("POST /api/auth/register", handleRegister(authService, logger))
	mux.Handle("POST /api/auth/login", handleLogin(authService, logger))
	mux.Handle("POST /api/auth/refresh", handleRefresh(authService, logger))
	mux.Handle("POST /api/auth/logout", handleLogout(authService))
	mux.Handle("POST /api/auth/forgot-password", handleForgotPassword(authService, logger))
	mux.Handle("POST /api/auth/reset-password", handleResetPassword(authService, logger))
	mux.Handle("GET /api/auth/me", withAuth(handleUserMe()))

	mux.Handle("POST /api/layout/save", handleSaveLayout(layoutService, logger))
	mux.Handle("GET /api/layout/load", handleLoadLayout(layoutService, logger))
	mux.Handle("GET /api/layout/templates", handleTemplates(layoutService))

	mds := []func(http.Handler) http.Handler{
		middleware.LoggerMiddleware(logger),
		middleware.RecoverMiddleware(logger),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.SecurityHeadersMiddleware,
	}
	// Has to wrap mux directly to see the matched route pattern
	if cfg.Metrics != nil {
		mds = append(mds, middleware.MetricsMiddleware(cfg.Metrics))
	}

	return chain(mux, mds...)
}

func handleRoot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Oraweb Backend Running"))
	})
}

type authService interface {
	// Register user and issue token pair
	// Has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, name string, email string, password string) (models.TokenPair, error)

	// Login user with email and password
	// Has to return apperrors.ErrInvalidCredentials if email unknown or password wrong
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Issue new access token by refresh token
	// If token empty: has to return apperrors.ErrTokenMissing
	// If token not valid or expired: has to return apperrors.ErrTokenInvalid
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Has to return apperrors.ErrUserNotFound if email unknown
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email string, newPassword string) error

	// Refresh token transport
	SetRefreshCookie(w http.ResponseWriter, r *http.Request, refresh models.IssuedToken)
	ClearRefreshCookie(w http.ResponseWriter, r *http.Request)
	ReadRefreshToken(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type layoutService interface {
	Save(ctx context.Context, items []models.GridItem, components []models.Component) (models.Layout, error)

	// Has to return nil layout if nothing saved yet
	Latest(ctx context.Context) (*models.Layout, error)

	Templates() []models.Template
}
