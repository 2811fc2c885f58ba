package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
)

// Transaction records one immutable stock mutation. Rows are append-only:
// nothing in the codebase updates or deletes them.
type Transaction struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID             `gorm:"column:item_id;type:uuid;not null;index"`
	ItemName  string                `gorm:"column:item_name;type:text;not null"`
	Username  string                `gorm:"column:username;type:text;not null"`
	Type      enums.TransactionType `gorm:"column:type;type:text;not null"`
	QtyChange int                   `gorm:"column:qty_change;not null"`
	Note      string                `gorm:"column:note;type:text"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime;index"`
}
