package kits

import (
	"time"

	"github.com/google/uuid"
)

// CreateKitInput captures the fields accepted when defining a kit.
type CreateKitInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LinkItemInput attaches an item requirement to a kit.
type LinkItemInput struct {
	ItemID    uuid.UUID `json:"item_id"`
	QtyNeeded int       `json:"qty_needed"`
}

// ContentDetail is one kit requirement joined with live stock.
type ContentDetail struct {
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	QtyNeeded  int       `json:"qty_needed"`
	InStock    int       `json:"in_stock"`
	Sufficient bool      `json:"sufficient"`
}

// KitDetail is a kit plus its contents and feasibility snapshot.
type KitDetail struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	Contents      []ContentDetail `json:"contents"`
	BuildableSets int             `json:"buildable_sets"`
}

// KitSummary is the list representation of a kit.
type KitSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	ItemCount   int       `json:"item_count"`
}
