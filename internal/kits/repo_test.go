package kits

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
)

func setupKitsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	items := `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  threshold INTEGER NOT NULL DEFAULT 0,
  location TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	kits := `
CREATE TABLE IF NOT EXISTS kits (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	kitContents := `
CREATE TABLE IF NOT EXISTS kit_contents (
  id TEXT PRIMARY KEY,
  kit_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  qty_needed INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (kit_id, item_id)
);`
	require.NoError(t, db.Exec(items).Error)
	require.NoError(t, db.Exec(kits).Error)
	require.NoError(t, db.Exec(kitContents).Error)
	return db
}

func newKit(t *testing.T, db *gorm.DB, name string) *models.Kit {
	t.Helper()

	kit := &models.Kit{
		ID:          uuid.New(),
		Name:        name,
		Description: "test kit",
	}
	require.NoError(t, db.Create(kit).Error)
	return kit
}

func newKitItem(t *testing.T, db *gorm.DB, name string, qty int) *models.Item {
	t.Helper()

	item := &models.Item{
		ID:       uuid.New(),
		Name:     name,
		Quantity: qty,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func TestRepositoryUpsertContentReplacesQty(t *testing.T) {
	db := setupKitsTestDB(t)
	repo := NewRepository(db)

	kit := newKit(t, db, uniqueName("SAR Demo"))
	item := newKitItem(t, db, uniqueName("HC-SR04 Sensor"), 10)

	require.NoError(t, repo.UpsertContent(context.Background(), &models.KitContent{
		ID:        uuid.New(),
		KitID:     kit.ID,
		ItemID:    item.ID,
		QtyNeeded: 2,
	}))

	// linking again must not create a second row
	require.NoError(t, repo.UpsertContent(context.Background(), &models.KitContent{
		ID:        uuid.New(),
		KitID:     kit.ID,
		ItemID:    item.ID,
		QtyNeeded: 5,
	}))

	var contents []models.KitContent
	require.NoError(t, db.Where("kit_id = ?", kit.ID).Find(&contents).Error)
	require.Len(t, contents, 1)
	assert.Equal(t, 5, contents[0].QtyNeeded)
}

func TestRepositoryFindByIDPreloadsContents(t *testing.T) {
	db := setupKitsTestDB(t)
	repo := NewRepository(db)

	kit := newKit(t, db, uniqueName("Line Follower"))
	itemA := newKitItem(t, db, uniqueName("IR Sensor"), 20)
	itemB := newKitItem(t, db, uniqueName("Chassis"), 4)

	for _, link := range []struct {
		item *models.Item
		qty  int
	}{{itemA, 2}, {itemB, 1}} {
		require.NoError(t, repo.UpsertContent(context.Background(), &models.KitContent{
			ID:        uuid.New(),
			KitID:     kit.ID,
			ItemID:    link.item.ID,
			QtyNeeded: link.qty,
		}))
	}

	got, err := repo.FindByID(context.Background(), kit.ID)
	require.NoError(t, err)
	assert.Len(t, got.Contents, 2)
}

func TestRepositoryRemoveContent(t *testing.T) {
	db := setupKitsTestDB(t)
	repo := NewRepository(db)

	kit := newKit(t, db, uniqueName("Arm Kit"))
	item := newKitItem(t, db, uniqueName("Servo Motor"), 6)

	require.NoError(t, repo.UpsertContent(context.Background(), &models.KitContent{
		ID:        uuid.New(),
		KitID:     kit.ID,
		ItemID:    item.ID,
		QtyNeeded: 3,
	}))

	affected, err := repo.RemoveContent(context.Background(), kit.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.RemoveContent(context.Background(), kit.ID, item.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
