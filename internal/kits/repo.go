package kits

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
)

// Repository manages persistence for kits and their contents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, kit *models.Kit) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Kit, error)
	FindByName(ctx context.Context, name string) (*models.Kit, error)
	List(ctx context.Context) ([]models.Kit, error)
	UpsertContent(ctx context.Context, content *models.KitContent) error
	RemoveContent(ctx context.Context, kitID, itemID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a kits repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, kit *models.Kit) error {
	return r.db.WithContext(ctx).Create(kit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Kit, error) {
	var kit models.Kit
	err := r.db.WithContext(ctx).
		Preload("Contents").
		Where("id = ?", id).
		First(&kit).Error
	if err != nil {
		return nil, err
	}
	return &kit, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.Kit, error) {
	var kit models.Kit
	err := r.db.WithContext(ctx).
		Preload("Contents").
		Where("name = ?", name).
		First(&kit).Error
	if err != nil {
		return nil, err
	}
	return &kit, nil
}

func (r *repository) List(ctx context.Context) ([]models.Kit, error) {
	var kits []models.Kit
	err := r.db.WithContext(ctx).
		Preload("Contents").
		Order("name ASC").
		Find(&kits).Error
	if err != nil {
		return nil, err
	}
	return kits, nil
}

// UpsertContent links an item to a kit. Re-linking the same item replaces the
// required quantity instead of inserting a second row.
func (r *repository) UpsertContent(ctx context.Context, content *models.KitContent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kit_id"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]any{"qty_needed": content.QtyNeeded}),
		}).
		Create(content).Error
}

func (r *repository) RemoveContent(ctx context.Context, kitID, itemID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("kit_id = ? AND item_id = ?", kitID, itemID).
		Delete(&models.KitContent{})
	return result.RowsAffected, result.Error
}
