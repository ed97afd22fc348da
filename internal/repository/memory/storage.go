// Package memory keeps users and layouts in process memory.
// Useful for local development without database and for tests; data is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/models"
	"github.com/nkiryanov/oraweb/internal/repository"
)

type Storage struct {
	users   *UserRepo
	layouts *LayoutRepo
}

func NewStorage() *Storage {
	return &Storage{
		users:   &UserRepo{byID: make(map[uuid.UUID]models.User), byEmail: make(map[string]uuid.UUID)},
		layouts: &LayoutRepo{},
	}
}

func (s *Storage) User() repository.UserRepo {
	return s.users
}

func (s *Storage) Layout() repository.LayoutRepo {
	return s.layouts
}

type UserRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func (r *UserRepo) CreateUser(ctx context.Context, name string, email string, hashedPassword string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return models.User{}, apperrors.ErrUserAlreadyExists
	}

	user := models.User{
		ID:             uuid.New(),
		CreatedAt:      time.Now(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
	}
	r.byID[user.ID] = user
	r.byEmail[email] = user.ID

	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[userID]
	if !ok {
		return user, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return user, apperrors.ErrUserNotFound
	}
	user.HashedPassword = hashedPassword
	r.byID[userID] = user

	return user, nil
}

type LayoutRepo struct {
	mu      sync.RWMutex
	layouts []models.Layout
}

func (r *LayoutRepo) SaveLayout(ctx context.Context, items []models.GridItem, components []models.Component) (models.Layout, error) {
	if err := ctx.Err(); err != nil {
		return models.Layout{}, err
	}

	layout := models.Layout{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		Items:      append([]models.GridItem{}, items...),
		Components: append([]models.Component{}, components...),
	}

	r.mu.Lock()
	r.layouts = append(r.layouts, layout)
	r.mu.Unlock()

	return layout, nil
}

func (r *LayoutRepo) GetLatestLayout(ctx context.Context) (models.Layout, error) {
	if err := ctx.Err(); err != nil {
		return models.Layout{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.layouts) == 0 {
		return models.Layout{}, apperrors.ErrLayoutNotFound
	}
	return r.layouts[len(r.layouts)-1], nil
}
