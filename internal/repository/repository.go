package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/oraweb/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, name string, email string, hashedPassword string) (models.User, error)

	// Get user by it's id or email
	// Email compared as is (case-sensitive)
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Replace user password hash
	// If user not found must return apperrors.ErrUserNotFound
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) (models.User, error)
}

// Layout repository interface
type LayoutRepo interface {
	// Save new layout version. Previous versions are kept untouched
	SaveLayout(ctx context.Context, items []models.GridItem, components []models.Component) (models.Layout, error)

	// Return the most recently saved layout
	// If nothing saved yet must return apperrors.ErrLayoutNotFound
	GetLatestLayout(ctx context.Context) (models.Layout, error)
}

type Storage interface {
	User() UserRepo
	Layout() LayoutRepo
}
