package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, name, email, password_hash
`

func (r *UserRepo) CreateUser(ctx context.Context, name string, email string, hashedPassword string) (models.User, error) {
	return r.queryUser(ctx, createUser, uuid.New(), name, email, hashedPassword)
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, name, email, password_hash
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.queryUser(ctx, getUserByID, id)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, created_at, name, email, password_hash
FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.queryUser(ctx, getUserByEmail, email)
}

const updatePassword = `-- name: UpdatePassword
UPDATE users
SET password_hash = $2
WHERE id = $1
RETURNING id, created_at, name, email, password_hash
`

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) (models.User, error) {
	return r.queryUser(ctx, updatePassword, userID, hashedPassword)
}

// Run query that returns exactly one user row and map db errors to well known ones
func (r *UserRepo) queryUser(ctx context.Context, query string, args ...any) (models.User, error) {
	var user models.User

	rows, err := r.DB.Query(ctx, query, args...)
	if err == nil {
		user, err = pgx.CollectOneRow(rows, rowToUser)
	}

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return user, apperrors.ErrUserAlreadyExists
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Email, &u.HashedPassword)
	return u, err
}
