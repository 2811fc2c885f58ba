package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
	"github.com/tsrs-robotics/robolab-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn    func(ctx context.Context, entry *models.Transaction) error
	listSinceFn func(ctx context.Context, since *time.Time) ([]models.Transaction, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.Transaction) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) ListByItemID(ctx context.Context, itemID uuid.UUID) ([]models.Transaction, error) {
	return nil, nil
}

func (f *fakeRepository) List(ctx context.Context, params pagination.Params, filters Filters) (*TransactionList, error) {
	return &TransactionList{}, nil
}

func (f *fakeRepository) ListSince(ctx context.Context, since *time.Time) ([]models.Transaction, error) {
	if f.listSinceFn != nil {
		return f.listSinceFn(ctx, since)
	}
	return nil, nil
}

func TestService_Record(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	input := RecordTransactionInput{
		ItemID:    uuid.New(),
		ItemName:  "Arduino Uno",
		Username:  "jsmith",
		Type:      enums.TransactionTypeIn,
		QtyChange: 10,
		Note:      "Manual Restock",
	}

	var created *models.Transaction
	repo.createFn = func(ctx context.Context, entry *models.Transaction) error {
		created = entry
		return nil
	}

	got, err := svc.Record(context.Background(), input)
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if created == nil {
		t.Fatal("expected transaction to be created")
	}
	if created.ItemID != input.ItemID || created.Type != input.Type || created.QtyChange != input.QtyChange {
		t.Fatalf("unexpected transaction data: %+v", created)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated transaction id")
	}
	if got != created {
		t.Fatal("service should return created transaction")
	}
}

func TestService_RecordValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tests := []struct {
		name  string
		input RecordTransactionInput
	}{
		{
			name: "missing item id",
			input: RecordTransactionInput{
				ItemName:  "Arduino Uno",
				Username:  "jsmith",
				Type:      enums.TransactionTypeIn,
				QtyChange: 1,
			},
		},
		{
			name: "missing username",
			input: RecordTransactionInput{
				ItemID:    uuid.New(),
				ItemName:  "Arduino Uno",
				Type:      enums.TransactionTypeIn,
				QtyChange: 1,
			},
		},
		{
			name: "invalid type",
			input: RecordTransactionInput{
				ItemID:    uuid.New(),
				ItemName:  "Arduino Uno",
				Username:  "jsmith",
				Type:      enums.TransactionType("SIDEWAYS"),
				QtyChange: 1,
			},
		},
		{
			name: "non-positive qty",
			input: RecordTransactionInput{
				ItemID:    uuid.New(),
				ItemName:  "Arduino Uno",
				Username:  "jsmith",
				Type:      enums.TransactionTypeOut,
				QtyChange: 0,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), tc.input)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestService_ListRejectsMalformedCursor(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.List(context.Background(), pagination.Params{Cursor: "not-base64!"}, Filters{})
	if err == nil {
		t.Fatal("expected malformed cursor error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestService_ReportTotalsAndWindow(t *testing.T) {
	itemID := uuid.New()
	repo := &fakeRepository{
		listSinceFn: func(ctx context.Context, since *time.Time) ([]models.Transaction, error) {
			if since == nil {
				t.Fatal("expected a cutoff for a bounded window")
			}
			return []models.Transaction{
				{ID: uuid.New(), ItemID: itemID, ItemName: "Arduino Uno", Username: "jsmith", Type: enums.TransactionTypeIn, QtyChange: 10},
				{ID: uuid.New(), ItemID: itemID, ItemName: "Arduino Uno", Username: "jsmith", Type: enums.TransactionTypeOut, QtyChange: 3},
				{ID: uuid.New(), ItemID: itemID, ItemName: "Arduino Uno", Username: "ops", Type: enums.TransactionTypeOut, QtyChange: 4},
			}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	report, err := svc.Report(context.Background(), 30)
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	if report.TotalIn != 10 {
		t.Fatalf("expected total in 10, got %d", report.TotalIn)
	}
	if report.TotalOut != 7 {
		t.Fatalf("expected total out 7, got %d", report.TotalOut)
	}
	if report.EntryCount != 3 {
		t.Fatalf("expected 3 entries, got %d", report.EntryCount)
	}
}

func TestService_ReportRejectsUnknownWindow(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.Report(context.Background(), 45); err == nil {
		t.Fatal("expected unsupported window error")
	}
}

func TestService_ReportCSV(t *testing.T) {
	entryID := uuid.New()
	itemID := uuid.New()
	repo := &fakeRepository{
		listSinceFn: func(ctx context.Context, since *time.Time) ([]models.Transaction, error) {
			return []models.Transaction{
				{
					ID:        entryID,
					ItemID:    itemID,
					ItemName:  "HC-SR04 Sensor",
					Username:  "jsmith",
					Type:      enums.TransactionTypeOut,
					QtyChange: 2,
					Note:      "Kit: SAR Demo",
					CreatedAt: time.Now().UTC(),
				},
			}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	data, err := svc.ReportCSV(context.Background(), 0)
	if err != nil {
		t.Fatalf("ReportCSV error: %v", err)
	}

	content := string(data)
	if !strings.HasPrefix(content, "ID,Item ID,Item Name,User,Type,Qty Change,Timestamp,Note") {
		t.Fatalf("unexpected csv header: %s", content)
	}
	if !strings.Contains(content, entryID.String()+","+itemID.String()+",HC-SR04 Sensor,jsmith,OUT,2,") {
		t.Fatalf("missing csv row: %s", content)
	}
	if !strings.Contains(content, "Kit: SAR Demo") {
		t.Fatalf("missing note column: %s", content)
	}
}
