package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	"github.com/tsrs-robotics/robolab-backend/pkg/pagination"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	transactions := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  username TEXT NOT NULL,
  type TEXT NOT NULL,
  qty_change INTEGER NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func createEntry(t *testing.T, db *gorm.DB, itemID uuid.UUID, txType enums.TransactionType, qty int, created time.Time) *models.Transaction {
	t.Helper()

	entry := &models.Transaction{
		ID:        uuid.New(),
		ItemID:    itemID,
		ItemName:  "Test Item",
		Username:  "jsmith",
		Type:      txType,
		QtyChange: qty,
		Note:      "Manual Restock",
		CreatedAt: created,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestRepositoryList_pagination(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	itemID := uuid.New()
	now := time.Now().UTC()
	createEntry(t, db, itemID, enums.TransactionTypeIn, 5, now.Add(-2*time.Hour))
	createEntry(t, db, itemID, enums.TransactionTypeOut, 2, now.Add(-time.Hour))
	newest := createEntry(t, db, itemID, enums.TransactionTypeIn, 10, now)

	list, err := repo.List(context.Background(), pagination.Params{Limit: 2}, Filters{ItemID: &itemID})
	require.NoError(t, err)
	require.Len(t, list.Transactions, 2)
	assert.NotEmpty(t, list.NextCursor)
	assert.Equal(t, newest.ID, list.Transactions[0].ID)

	second, err := repo.List(context.Background(), pagination.Params{Limit: 2, Cursor: list.NextCursor}, Filters{ItemID: &itemID})
	require.NoError(t, err)
	require.Len(t, second.Transactions, 1)
	assert.Empty(t, second.NextCursor)
	assert.Equal(t, 5, second.Transactions[0].QtyChange)
}

func TestRepositoryList_typeFilter(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	itemID := uuid.New()
	now := time.Now().UTC()
	createEntry(t, db, itemID, enums.TransactionTypeIn, 5, now.Add(-time.Minute))
	createEntry(t, db, itemID, enums.TransactionTypeOut, 2, now)

	out := string(enums.TransactionTypeOut)
	list, err := repo.List(context.Background(), pagination.Params{}, Filters{ItemID: &itemID, Type: &out})
	require.NoError(t, err)
	require.Len(t, list.Transactions, 1)
	assert.Equal(t, enums.TransactionTypeOut, list.Transactions[0].Type)
}

func TestRepositoryListSince(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	itemID := uuid.New()
	now := time.Now().UTC()
	createEntry(t, db, itemID, enums.TransactionTypeIn, 5, now.AddDate(0, 0, -60))
	recent := createEntry(t, db, itemID, enums.TransactionTypeOut, 2, now.AddDate(0, 0, -10))

	cutoff := now.AddDate(0, 0, -30)
	entries, err := repo.ListSince(context.Background(), &cutoff)
	require.NoError(t, err)

	var matched bool
	for _, entry := range entries {
		require.True(t, entry.CreatedAt.After(cutoff) || entry.CreatedAt.Equal(cutoff))
		if entry.ID == recent.ID {
			matched = true
		}
	}
	assert.True(t, matched, "recent entry should be inside the window")
}

func TestRepositoryListByItemID_newestFirst(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	itemID := uuid.New()
	now := time.Now().UTC()
	createEntry(t, db, itemID, enums.TransactionTypeIn, 5, now.Add(-time.Hour))
	newest := createEntry(t, db, itemID, enums.TransactionTypeOut, 1, now)

	entries, err := repo.ListByItemID(context.Background(), itemID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newest.ID, entries[0].ID)
}
