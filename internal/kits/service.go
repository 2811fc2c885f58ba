package kits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/internal/items"
	"github.com/tsrs-robotics/robolab-backend/pkg/db"
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
)

// Service defines catalog operations for kits.
type Service interface {
	Create(ctx context.Context, input CreateKitInput) (*models.Kit, error)
	Get(ctx context.Context, id uuid.UUID) (*KitDetail, error)
	List(ctx context.Context) ([]KitSummary, error)
	LinkItem(ctx context.Context, kitID uuid.UUID, input LinkItemInput) (*KitDetail, error)
	UnlinkItem(ctx context.Context, kitID, itemID uuid.UUID) error
}

type service struct {
	repo      Repository
	itemsRepo items.Repository
}

// NewService builds a kits service with the required dependencies.
func NewService(repo Repository, itemsRepo items.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("kits repository required")
	}
	if itemsRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	return &service{repo: repo, itemsRepo: itemsRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateKitInput) (*models.Kit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kit name is required")
	}

	kit := &models.Kit{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.repo.Create(ctx, kit); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("kit %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating kit")
	}
	return kit, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*KitDetail, error) {
	kit, err := s.findKit(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, kit)
}

func (s *service) List(ctx context.Context) ([]KitSummary, error) {
	kits, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing kits")
	}

	summaries := make([]KitSummary, 0, len(kits))
	for _, kit := range kits {
		summaries = append(summaries, KitSummary{
			ID:          kit.ID,
			Name:        kit.Name,
			Description: kit.Description,
			CreatedAt:   kit.CreatedAt,
			ItemCount:   len(kit.Contents),
		})
	}
	return summaries, nil
}

func (s *service) LinkItem(ctx context.Context, kitID uuid.UUID, input LinkItemInput) (*KitDetail, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.QtyNeeded <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty needed must be positive")
	}

	if _, err := s.findKit(ctx, kitID); err != nil {
		return nil, err
	}
	if _, err := s.itemsRepo.FindByID(ctx, input.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading item")
	}

	content := &models.KitContent{
		ID:        uuid.New(),
		KitID:     kitID,
		ItemID:    input.ItemID,
		QtyNeeded: input.QtyNeeded,
	}
	if err := s.repo.UpsertContent(ctx, content); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking item to kit")
	}
	return s.Get(ctx, kitID)
}

func (s *service) UnlinkItem(ctx context.Context, kitID, itemID uuid.UUID) error {
	if _, err := s.findKit(ctx, kitID); err != nil {
		return err
	}

	affected, err := s.repo.RemoveContent(ctx, kitID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unlinking item from kit")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item is not part of the kit")
	}
	return nil
}

func (s *service) findKit(ctx context.Context, id uuid.UUID) (*models.Kit, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kit id is required")
	}
	kit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "kit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading kit")
	}
	return kit, nil
}

func (s *service) buildDetail(ctx context.Context, kit *models.Kit) (*KitDetail, error) {
	detail := &KitDetail{
		ID:          kit.ID,
		Name:        kit.Name,
		Description: kit.Description,
		CreatedAt:   kit.CreatedAt,
		Contents:    make([]ContentDetail, 0, len(kit.Contents)),
	}

	for i, content := range kit.Contents {
		item, err := s.itemsRepo.FindByID(ctx, content.ItemID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading kit item")
		}

		detail.Contents = append(detail.Contents, ContentDetail{
			ItemID:     item.ID,
			ItemName:   item.Name,
			QtyNeeded:  content.QtyNeeded,
			InStock:    item.Quantity,
			Sufficient: item.Quantity >= content.QtyNeeded,
		})

		buildable := item.Quantity / content.QtyNeeded
		if i == 0 || buildable < detail.BuildableSets {
			detail.BuildableSets = buildable
		}
	}
	return detail, nil
}
