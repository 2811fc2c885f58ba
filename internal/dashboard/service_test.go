package dashboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsrs-robotics/robolab-backend/internal/items"
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
)

type fakeItemsRepo struct {
	items []models.Item
}

func (f *fakeItemsRepo) List(ctx context.Context, filters items.Filters) ([]models.Item, error) {
	return f.items, nil
}

type fakeKitsRepo struct {
	kits []models.Kit
}

func (f *fakeKitsRepo) List(ctx context.Context) ([]models.Kit, error) {
	return f.kits, nil
}

func TestServiceSummary(t *testing.T) {
	itemsRepo := &fakeItemsRepo{items: []models.Item{
		{ID: uuid.New(), Name: "Arduino Uno", Category: "Microcontrollers", Quantity: 10, Threshold: 3},
		{ID: uuid.New(), Name: "Servo Motor", Category: "Motors", Quantity: 2, Threshold: 5},
		{ID: uuid.New(), Name: "Jumper Wires", Category: "", Quantity: 40, Threshold: 10},
	}}
	kitsRepo := &fakeKitsRepo{kits: []models.Kit{
		{ID: uuid.New(), Name: "Line Follower"},
	}}

	svc, err := NewService(itemsRepo, kitsRepo)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 52, summary.StockVolume)
	assert.Equal(t, 1, summary.KitCount)

	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "Servo Motor", summary.LowStock[0].Item.Name)
	assert.Equal(t, 8, summary.LowStock[0].RecommendedOrder)

	require.Len(t, summary.Categories, 3)
	assert.Equal(t, CategoryCount{Category: "Microcontrollers", Quantity: 10}, summary.Categories[0])
	assert.Equal(t, CategoryCount{Category: "Motors", Quantity: 2}, summary.Categories[1])
	assert.Equal(t, CategoryCount{Category: "Uncategorized", Quantity: 40}, summary.Categories[2])
}

func TestServiceSummaryEmptyCatalog(t *testing.T) {
	svc, err := NewService(&fakeItemsRepo{}, &fakeKitsRepo{})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.ItemCount)
	assert.Zero(t, summary.StockVolume)
	assert.Zero(t, summary.KitCount)
	assert.Empty(t, summary.LowStock)
	assert.Empty(t, summary.Categories)
}
