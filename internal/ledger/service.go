package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
	"github.com/tsrs-robotics/robolab-backend/pkg/pagination"
)

// reportWindows are the day spans the report endpoint accepts; 0 means all history.
var reportWindows = map[int]bool{0: true, 30: true, 90: true, 180: true, 365: true}

// Service defines read and record operations over the transaction ledger.
type Service interface {
	Record(ctx context.Context, input RecordTransactionInput) (*models.Transaction, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*TransactionList, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Transaction, error)
	Report(ctx context.Context, windowDays int) (*Report, error)
	ReportCSV(ctx context.Context, windowDays int) ([]byte, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Record(ctx context.Context, input RecordTransactionInput) (*models.Transaction, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if strings.TrimSpace(input.ItemName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}
	if input.QtyChange <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty change must be positive")
	}

	entry := &models.Transaction{
		ID:        uuid.New(),
		ItemID:    input.ItemID,
		ItemName:  input.ItemName,
		Username:  input.Username,
		Type:      input.Type,
		QtyChange: input.QtyChange,
		Note:      input.Note,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording transaction")
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*TransactionList, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing transactions")
	}
	return list, nil
}

func (s *service) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Transaction, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	entries, err := s.repo.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing item transactions")
	}
	return entries, nil
}

func (s *service) Report(ctx context.Context, windowDays int) (*Report, error) {
	if !reportWindows[windowDays] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported report window %d", windowDays))
	}

	var since *time.Time
	now := s.now().UTC()
	if windowDays > 0 {
		cutoff := now.AddDate(0, 0, -windowDays)
		since = &cutoff
	}

	entries, err := s.repo.ListSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading report transactions")
	}

	report := &Report{
		WindowDays:   windowDays,
		GeneratedAt:  now,
		Transactions: entries,
		EntryCount:   len(entries),
	}
	for _, entry := range entries {
		switch entry.Type {
		case enums.TransactionTypeIn:
			report.TotalIn += entry.QtyChange
		case enums.TransactionTypeOut:
			report.TotalOut += entry.QtyChange
		}
	}
	return report, nil
}

func (s *service) ReportCSV(ctx context.Context, windowDays int) ([]byte, error) {
	report, err := s.Report(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// column order mirrors the transactions schema
	if err := w.Write([]string{"ID", "Item ID", "Item Name", "User", "Type", "Qty Change", "Timestamp", "Note"}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing report header")
	}
	for _, entry := range report.Transactions {
		row := []string{
			entry.ID.String(),
			entry.ItemID.String(),
			entry.ItemName,
			entry.Username,
			string(entry.Type),
			strconv.Itoa(entry.QtyChange),
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.Note,
		}
		if err := w.Write(row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing report row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flushing report")
	}
	return buf.Bytes(), nil
}
