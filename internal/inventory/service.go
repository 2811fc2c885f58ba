package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/internal/items"
	"github.com/tsrs-robotics/robolab-backend/internal/kits"
	"github.com/tsrs-robotics/robolab-backend/internal/ledger"
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
	"github.com/tsrs-robotics/robolab-backend/pkg/metrics"
)

const (
	defaultRestockNote = "Manual Restock"
	defaultUsageNote   = "Manual Usage"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the stock engine. Every quantity change flows through here so the
// item row and its ledger entry always commit together.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*models.Transaction, error)
	IssueKit(ctx context.Context, input IssueKitInput) (*IssueResult, error)
}

type service struct {
	itemsRepo  items.Repository
	kitsRepo   kits.Repository
	ledgerRepo ledger.Repository
	tx         txRunner
	metrics    *metrics.InventoryMetrics
}

// NewService builds the inventory engine with the required dependencies.
// Metrics may be nil; recording becomes a no-op.
func NewService(itemsRepo items.Repository, kitsRepo kits.Repository, ledgerRepo ledger.Repository, tx txRunner, m *metrics.InventoryMetrics) (Service, error) {
	if itemsRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if kitsRepo == nil {
		return nil, fmt.Errorf("kits repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		itemsRepo:  itemsRepo,
		kitsRepo:   kitsRepo,
		ledgerRepo: ledgerRepo,
		tx:         tx,
		metrics:    m,
	}, nil
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.Transaction, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	note := strings.TrimSpace(input.Note)
	if note == "" {
		if input.Type == enums.TransactionTypeIn {
			note = defaultRestockNote
		} else {
			note = defaultUsageNote
		}
	}

	var entry *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemsRepo := s.itemsRepo.WithTx(tx)

		item, err := itemsRepo.FindByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading item")
		}

		switch input.Type {
		case enums.TransactionTypeIn:
			if err := itemsRepo.AddQuantity(ctx, item.ID, input.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding stock")
			}
		case enums.TransactionTypeOut:
			ok, err := itemsRepo.SubtractQuantityGuarded(ctx, item.ID, input.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing stock")
			}
			if !ok {
				s.metrics.IncRejection("insufficient_stock")
				return insufficientStockError(ctx, itemsRepo, item, input.Qty)
			}
		}

		entry = &models.Transaction{
			ID:        uuid.New(),
			ItemID:    item.ID,
			ItemName:  item.Name,
			Username:  input.Username,
			Type:      input.Type,
			QtyChange: input.Qty,
			Note:      note,
		}
		if err := s.ledgerRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording adjustment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAdjustment(string(input.Type))
	return entry, nil
}

func (s *service) IssueKit(ctx context.Context, input IssueKitInput) (*IssueResult, error) {
	if input.KitID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kit id is required")
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	sets := input.Sets
	if sets == 0 {
		sets = 1
	}
	if sets < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sets must be positive")
	}

	var result *IssueResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemsRepo := s.itemsRepo.WithTx(tx)
		ledgerRepo := s.ledgerRepo.WithTx(tx)

		kit, err := s.kitsRepo.WithTx(tx).FindByID(ctx, input.KitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "kit not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading kit")
		}
		if len(kit.Contents) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "kit has no contents")
		}

		// deterministic order keeps concurrent issuances from deadlocking
		contents := make([]models.KitContent, len(kit.Contents))
		copy(contents, kit.Contents)
		sort.Slice(contents, func(i, j int) bool {
			return contents[i].ItemID.String() < contents[j].ItemID.String()
		})

		note := fmt.Sprintf("Kit: %s", kit.Name)
		issued := &IssueResult{KitID: kit.ID, KitName: kit.Name, Sets: sets}
		var shortages []Shortage

		for _, content := range contents {
			item, err := itemsRepo.FindByID(ctx, content.ItemID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading kit item")
			}
			needed := content.QtyNeeded * sets

			ok, err := itemsRepo.SubtractQuantityGuarded(ctx, item.ID, needed)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing kit stock")
			}
			if !ok {
				shortages = append(shortages, Shortage{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Requested: needed,
					Available: item.Quantity,
				})
				continue
			}

			entry := models.Transaction{
				ID:        uuid.New(),
				ItemID:    item.ID,
				ItemName:  item.Name,
				Username:  input.Username,
				Type:      enums.TransactionTypeOut,
				QtyChange: needed,
				Note:      note,
			}
			if err := ledgerRepo.Create(ctx, &entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording kit issuance")
			}
			issued.Transactions = append(issued.Transactions, entry)
		}

		if len(shortages) > 0 {
			s.metrics.IncRejection("kit_infeasible")
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock to issue kit").
				WithDetails(map[string]any{"shortages": shortages})
		}

		result = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncKitIssue()
	return result, nil
}

func insufficientStockError(ctx context.Context, repo items.Repository, item *models.Item, requested int) error {
	available := item.Quantity
	if fresh, err := repo.FindByID(ctx, item.ID); err == nil {
		available = fresh.Quantity
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
		WithDetails(map[string]any{
			"item_name": item.Name,
			"requested": requested,
			"available": available,
		})
}
