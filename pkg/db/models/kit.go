package models

import (
	"time"

	"github.com/google/uuid"
)

// Kit is a named bundle of items representing one lab activity's material requirement.
type Kit struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	Contents []KitContent `gorm:"foreignKey:KitID"`
}

// KitContent links a kit to an item with the per-issuance quantity.
// The (kit_id, item_id) pair is unique; re-linking updates qty_needed.
type KitContent struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	KitID     uuid.UUID `gorm:"column:kit_id;type:uuid;not null;uniqueIndex:idx_kit_contents_kit_item"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_kit_contents_kit_item"`
	QtyNeeded int       `gorm:"column:qty_needed;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
