package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a trackable inventory component with a quantity and reorder threshold.
// Quantity is only ever written through the inventory engine.
type Item struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	Category  string    `gorm:"column:category;type:text;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	Threshold int       `gorm:"column:threshold;not null;default:0"`
	Location  string    `gorm:"column:location;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock reports whether the item has fallen to or below its threshold.
func (i Item) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}

// RecommendedOrder returns the purchase recommendation for a low-stock item:
// the shortfall against the threshold plus a safety margin of five units.
func (i Item) RecommendedOrder() int {
	return (i.Threshold - i.Quantity) + 5
}
