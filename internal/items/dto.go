package items

import (
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
)

// CreateItemInput captures the fields accepted when registering an item.
type CreateItemInput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
	Location  string `json:"location"`
}

// UpdateItemInput captures the mutable catalog fields. Quantity is deliberately
// absent; stock moves only through the inventory engine.
type UpdateItemInput struct {
	Name      *string `json:"name,omitempty"`
	Category  *string `json:"category,omitempty"`
	Threshold *int    `json:"threshold,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// LowStockItem pairs a depleted item with the suggested reorder quantity.
type LowStockItem struct {
	Item             models.Item `json:"item"`
	RecommendedOrder int         `json:"recommended_order"`
}

// ImportRow is one parsed line of a bulk import file.
type ImportRow struct {
	Line      int
	Name      string
	Category  string
	Quantity  int
	Threshold int
	Location  string
}

// ImportSummary reports the outcome of a bulk import.
type ImportSummary struct {
	Created int   `json:"created"`
	Updated int   `json:"updated"`
	Skipped int   `json:"skipped"`
	Errors  error `json:"-"`
}
