package items

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/internal/ledger"
	"github.com/tsrs-robotics/robolab-backend/pkg/db"
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog operations for lab items.
type Service interface {
	Create(ctx context.Context, input CreateItemInput, actor string) (*models.Item, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context, filters Filters) ([]models.Item, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.Item, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
	PurchaseOrderCSV(ctx context.Context) ([]byte, error)
	ImportCSV(ctx context.Context, r io.Reader, actor string) (*ImportSummary, error)
}

type service struct {
	repo       Repository
	ledgerRepo ledger.Repository
	tx         txRunner
}

// NewService builds an items service with the required dependencies.
func NewService(repo Repository, ledgerRepo ledger.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, ledgerRepo: ledgerRepo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput, actor string) (*models.Item, error) {
	if err := validateCreateInput(input, actor); err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		Quantity:  input.Quantity,
		Threshold: input.Threshold,
		Location:  strings.TrimSpace(input.Location),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, item); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("item %q already exists", item.Name))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating item")
		}
		if item.Quantity > 0 {
			return s.appendLedger(ctx, tx, item, actor, item.Quantity, "Initial Stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]models.Item, error) {
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing items")
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name must not be empty")
		}
		updates["name"] = name
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Threshold != nil {
		if *input.Threshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must not be negative")
		}
		updates["threshold"] = *input.Threshold
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating item")
	}
	return s.Get(ctx, id)
}

func (s *service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock items")
	}

	rows := make([]LowStockItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, LowStockItem{
			Item:             item,
			RecommendedOrder: item.RecommendedOrder(),
		})
	}
	return rows, nil
}

func (s *service) PurchaseOrderCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Item Name", "Category", "Current Qty", "Min Limit", "To Buy", "Location"}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing purchase order header")
	}
	for _, row := range rows {
		record := []string{
			row.Item.Name,
			row.Item.Category,
			strconv.Itoa(row.Item.Quantity),
			strconv.Itoa(row.Item.Threshold),
			strconv.Itoa(row.RecommendedOrder),
			row.Item.Location,
		}
		if err := w.Write(record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing purchase order row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flushing purchase order")
	}
	return buf.Bytes(), nil
}

func (s *service) ImportCSV(ctx context.Context, r io.Reader, actor string) (*ImportSummary, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}

	rows, rowErrs := ParseImportCSV(r)
	if rows == nil && rowErrs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, rowErrs, "parsing import file")
	}

	summary := &ImportSummary{
		Skipped: len(multierr.Errors(rowErrs)),
		Errors:  rowErrs,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range rows {
			existing, err := repo.FindByName(ctx, row.Name)
			switch {
			case err == nil:
				if err := s.applyImportUpdate(ctx, tx, repo, existing, row, actor); err != nil {
					return err
				}
				summary.Updated++
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := s.applyImportCreate(ctx, tx, repo, row, actor); err != nil {
					return err
				}
				summary.Created++
			default:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up import row")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *service) applyImportUpdate(ctx context.Context, tx *gorm.DB, repo Repository, existing *models.Item, row ImportRow, actor string) error {
	updates := map[string]any{
		"category":  row.Category,
		"threshold": row.Threshold,
		"location":  row.Location,
	}
	if err := repo.Update(ctx, existing.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating imported item")
	}
	if row.Quantity > 0 {
		if err := repo.AddQuantity(ctx, existing.ID, row.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restocking imported item")
		}
		return s.appendLedger(ctx, tx, existing, actor, row.Quantity, "Bulk Import")
	}
	return nil
}

func (s *service) applyImportCreate(ctx context.Context, tx *gorm.DB, repo Repository, row ImportRow, actor string) error {
	item := &models.Item{
		ID:        uuid.New(),
		Name:      row.Name,
		Category:  row.Category,
		Quantity:  row.Quantity,
		Threshold: row.Threshold,
		Location:  row.Location,
	}
	if err := repo.Create(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating imported item")
	}
	if row.Quantity > 0 {
		return s.appendLedger(ctx, tx, item, actor, row.Quantity, "Bulk Import")
	}
	return nil
}

func (s *service) appendLedger(ctx context.Context, tx *gorm.DB, item *models.Item, actor string, qty int, note string) error {
	entry := &models.Transaction{
		ID:        uuid.New(),
		ItemID:    item.ID,
		ItemName:  item.Name,
		Username:  actor,
		Type:      enums.TransactionTypeIn,
		QtyChange: qty,
		Note:      note,
	}
	if err := s.ledgerRepo.WithTx(tx).Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording stock-in entry")
	}
	return nil
}

func validateCreateInput(input CreateItemInput, actor string) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.Threshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "threshold must not be negative")
	}
	if strings.TrimSpace(actor) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}
	return nil
}
