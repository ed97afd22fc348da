package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/handlers/render"
	"github.com/nkiryanov/oraweb/internal/logger"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func handleRegister(auth authService, logger logger.Logger) http.Handler {
	type request struct {
		Name     string `json:"name" validate:"required,notblank"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := auth.Register(r.Context(), data.Name, data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already exists", http.StatusBadRequest)
			default:
				logger.Error("register failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetRefreshCookie(w, r, pair.Refresh)
		render.JSON(w, tokenResponse{Token: pair.Access.Value})
	})
}

func handleLogin(auth authService, logger logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := auth.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.ServiceError(w, "Invalid credentials", http.StatusBadRequest)
			default:
				logger.Error("login failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetRefreshCookie(w, r, pair.Refresh)
		render.JSON(w, tokenResponse{Token: pair.Access.Value})
	})
}

func handleRefresh(auth authService, logger logger.Logger) http.Handler {
	type response struct {
		AccessToken string `json:"accessToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := auth.ReadRefreshToken(r)
		if err != nil {
			render.ServiceError(w, "No refresh token found", http.StatusUnauthorized)
			return
		}

		access, err := auth.Refresh(r.Context(), refresh)
		if err != nil {
			// Expired and forged tokens look the same for the client
			switch {
			case errors.Is(err, apperrors.ErrTokenMissing):
				render.ServiceError(w, "No refresh token found", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrTokenInvalid):
				logger.Debug("refresh token rejected", "error", err)
				render.ServiceError(w, "Invalid refresh token", http.StatusForbidden)
			default:
				logger.Error("refresh failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{AccessToken: access.Value})
	})
}

func handleLogout(auth authService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.ClearRefreshCookie(w, r)
		render.JSON(w, messageResponse{Message: "Logged out successfully"})
	})
}

func handleForgotPassword(auth authService, logger logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = auth.ForgotPassword(r.Context(), data.Email)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Email not found", http.StatusNotFound)
			default:
				logger.Error("forgot password failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, messageResponse{Message: "Password reset instructions sent to your email"})
	})
}

func handleResetPassword(auth authService, logger logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = auth.ResetPassword(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Email not found", http.StatusNotFound)
			default:
				logger.Error("reset password failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, messageResponse{Message: "Password has been reset successfully"})
	})
}
