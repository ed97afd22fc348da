package models

import (
	"time"

	"github.com/google/uuid"
)

// Position of one cell on the page grid
type GridItem struct {
	I string `json:"i"`
	X int    `json:"x"`
	Y int    `json:"y"`
	W int    `json:"w"`
	H int    `json:"h"`
}

// UI component placed on the page
// Data is component specific (text, image src, colors, ...), so it kept as is
type Component struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
	X    int            `json:"x"`
	Y    int            `json:"y"`
	W    int            `json:"w"`
	H    int            `json:"h"`
}

type Layout struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Items      []GridItem
	Components []Component
}

// Predefined starting point for a page
type Template struct {
	Layout     []GridItem  `json:"layout"`
	Components []Component `json:"components"`
}
