package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
)

// TransactionList wraps the paginated ledger rows plus the next page cursor.
type TransactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

// RecordTransactionInput captures the immutable data a ledger entry requires.
type RecordTransactionInput struct {
	ItemID    uuid.UUID             `json:"item_id"`
	ItemName  string                `json:"item_name"`
	Username  string                `json:"username"`
	Type      enums.TransactionType `json:"type"`
	QtyChange int                   `json:"qty_change"`
	Note      string                `json:"note"`
}

// Report aggregates ledger activity over a time window.
type Report struct {
	WindowDays   int                  `json:"window_days"`
	GeneratedAt  time.Time            `json:"generated_at"`
	TotalIn      int                  `json:"total_in"`
	TotalOut     int                  `json:"total_out"`
	EntryCount   int                  `json:"entry_count"`
	Transactions []models.Transaction `json:"transactions"`
}
