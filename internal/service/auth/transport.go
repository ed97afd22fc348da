package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/models"
)

// SetRefreshCookie puts refresh token to HttpOnly cookie
// Cookie is Secure if service configured so or request came over TLS
func (s *AuthService) SetRefreshCookie(w http.ResponseWriter, r *http.Request, refresh models.IssuedToken) {
	maxAge := int(time.Until(refresh.ExpiresAt).Round(time.Second).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, s.refreshCookie(r, refresh.Value, maxAge))
}

// ClearRefreshCookie tells browser to drop refresh cookie
// Attributes have to match the ones used to set it, otherwise browser keeps the cookie
func (s *AuthService) ClearRefreshCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.refreshCookie(r, "", -1))
}

// ReadRefreshToken returns refresh token from request cookie
// Has to return apperrors.ErrTokenMissing if cookie not set or empty
func (s *AuthService) ReadRefreshToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrTokenMissing
	}
	return cookie.Value, nil
}

// Auth authenticates request by access token from header, like "Authorization: Bearer <token>"
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	header := r.Header.Get(s.accessHeaderName)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, s.accessAuthScheme) {
		return models.User{}, apperrors.ErrTokenMissing
	}

	return s.UserByAccessToken(ctx, strings.TrimSpace(token))
}

func (s *AuthService) refreshCookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}
