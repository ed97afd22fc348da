package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/models"
)

type LayoutRepo struct {
	DB DBTX
}

// Items and components are stored as jsonb: pgx marshals slices with encoding/json
const saveLayout = `-- name: SaveLayout
INSERT INTO layouts (id, items, components)
VALUES ($1, $2, $3)
RETURNING id, created_at, items, components
`

func (r *LayoutRepo) SaveLayout(ctx context.Context, items []models.GridItem, components []models.Component) (models.Layout, error) {
	if items == nil {
		items = []models.GridItem{}
	}
	if components == nil {
		components = []models.Component{}
	}

	layout, err := r.queryLayout(ctx, saveLayout, uuid.New(), items, components)
	if errors.Is(err, apperrors.ErrLayoutNotFound) {
		return layout, fmt.Errorf("db error: layout not returned after insert")
	}

	return layout, err
}

// Sequence column keeps insertion order even for rows created in one transaction
const getLatestLayout = `-- name: GetLatestLayout
SELECT id, created_at, items, components
FROM layouts
ORDER BY seq DESC
LIMIT 1
`

func (r *LayoutRepo) GetLatestLayout(ctx context.Context) (models.Layout, error) {
	return r.queryLayout(ctx, getLatestLayout)
}

func (r *LayoutRepo) queryLayout(ctx context.Context, query string, args ...any) (models.Layout, error) {
	var layout models.Layout

	rows, err := r.DB.Query(ctx, query, args...)
	if err == nil {
		layout, err = pgx.CollectOneRow(rows, rowToLayout)
	}

	switch {
	case err == nil:
		return layout, nil
	case errors.Is(err, pgx.ErrNoRows):
		return layout, apperrors.ErrLayoutNotFound
	default:
		return layout, fmt.Errorf("db error: %w", err)
	}
}

func rowToLayout(row pgx.CollectableRow) (models.Layout, error) {
	var l models.Layout
	err := row.Scan(&l.ID, &l.CreatedAt, &l.Items, &l.Components)
	return l, err
}
