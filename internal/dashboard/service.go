package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/tsrs-robotics/robolab-backend/internal/items"
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
)

const uncategorizedLabel = "Uncategorized"

type itemsRepository interface {
	List(ctx context.Context, filters items.Filters) ([]models.Item, error)
}

type kitsRepository interface {
	List(ctx context.Context) ([]models.Kit, error)
}

// Service aggregates catalog state into the dashboard overview.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	itemsRepo itemsRepository
	kitsRepo  kitsRepository
}

// NewService builds a dashboard service with the required dependencies.
func NewService(itemsRepo itemsRepository, kitsRepo kitsRepository) (Service, error) {
	if itemsRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if kitsRepo == nil {
		return nil, fmt.Errorf("kits repository required")
	}
	return &service{itemsRepo: itemsRepo, kitsRepo: kitsRepo}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	all, err := s.itemsRepo.List(ctx, items.Filters{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing items")
	}

	kitList, err := s.kitsRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing kits")
	}

	summary := &Summary{
		ItemCount: len(all),
		KitCount:  len(kitList),
		LowStock:  []items.LowStockItem{},
	}

	byCategory := map[string]int{}
	for _, item := range all {
		summary.StockVolume += item.Quantity

		category := item.Category
		if category == "" {
			category = uncategorizedLabel
		}
		byCategory[category] += item.Quantity

		if item.IsLowStock() {
			summary.LowStock = append(summary.LowStock, items.LowStockItem{
				Item:             item,
				RecommendedOrder: item.RecommendedOrder(),
			})
		}
	}

	summary.Categories = make([]CategoryCount, 0, len(byCategory))
	for category, qty := range byCategory {
		summary.Categories = append(summary.Categories, CategoryCount{Category: category, Quantity: qty})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	return summary, nil
}
