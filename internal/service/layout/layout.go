package layout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkiryanov/oraweb/internal/apperrors"
	"github.com/nkiryanov/oraweb/internal/models"
	"github.com/nkiryanov/oraweb/internal/repository"
)

const defaultStoreTimeout = 5 * time.Second

type Config struct {
	// Timeout for every single store call
	// If not set than default is used
	StoreTimeout time.Duration
}

type LayoutService struct {
	storeTimeout time.Duration
	layoutRepo   repository.LayoutRepo
}

func NewService(cfg Config, layoutRepo repository.LayoutRepo) (*LayoutService, error) {
	if layoutRepo == nil {
		return nil, errors.New("layout repo must not be nil")
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	return &LayoutService{storeTimeout: cfg.StoreTimeout, layoutRepo: layoutRepo}, nil
}

// Save stores new layout version
func (s *LayoutService) Save(ctx context.Context, items []models.GridItem, components []models.Component) (models.Layout, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	layout, err := s.layoutRepo.SaveLayout(ctx, items, components)
	if err != nil {
		return models.Layout{}, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return layout, nil
}

// Latest returns the most recently saved layout or nil if nothing saved yet
func (s *LayoutService) Latest(ctx context.Context) (*models.Layout, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	layout, err := s.layoutRepo.GetLatestLayout(ctx)
	switch {
	case errors.Is(err, apperrors.ErrLayoutNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}

	return &layout, nil
}

// Templates returns fixed list of starter templates
// Every call gets own copy, so callers may modify it freely
func (s *LayoutService) Templates() []models.Template {
	return []models.Template{
		{
			Layout: []models.GridItem{
				{I: "0", X: 0, Y: 0, W: 3, H: 2},
				{I: "1", X: 3, Y: 0, W: 3, H: 2},
			},
			Components: []models.Component{
				{Type: "TextComponent", Data: map[string]any{"text": "Welcome to Our Website"}, X: 0, Y: 0, W: 3, H: 2},
				{Type: "ImageComponent", Data: map[string]any{"src": "https://via.placeholder.com/300"}, X: 3, Y: 0, W: 3, H: 2},
			},
		},
		{
			Layout: []models.GridItem{
				{I: "0", X: 0, Y: 0, W: 4, H: 2},
				{I: "1", X: 4, Y: 0, W: 2, H: 2},
			},
			Components: []models.Component{
				{Type: "ButtonComponent", Data: map[string]any{"text": "Learn More", "backgroundColor": "#007BFF"}, X: 0, Y: 0, W: 4, H: 2},
				{Type: "VideoComponent", Data: map[string]any{"videoUrl": "https://www.youtube.com/embed/dQw4w9WgXcQ"}, X: 4, Y: 0, W: 2, H: 2},
			},
		},
	}
}
