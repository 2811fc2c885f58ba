package inventory

import (
	"github.com/google/uuid"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
)

// AdjustInput captures a manual stock movement.
type AdjustInput struct {
	ItemID   uuid.UUID             `json:"item_id"`
	Type     enums.TransactionType `json:"type"`
	Qty      int                   `json:"qty"`
	Username string                `json:"username"`
	Note     string                `json:"note"`
}

// IssueKitInput captures a kit issuance request.
type IssueKitInput struct {
	KitID    uuid.UUID `json:"kit_id"`
	Sets     int       `json:"sets"`
	Username string    `json:"username"`
}

// Shortage describes one item that blocked an operation.
type Shortage struct {
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

// IssueResult reports the ledger entries written for a kit issuance.
type IssueResult struct {
	KitID        uuid.UUID            `json:"kit_id"`
	KitName      string               `json:"kit_name"`
	Sets         int                  `json:"sets"`
	Transactions []models.Transaction `json:"transactions"`
}
