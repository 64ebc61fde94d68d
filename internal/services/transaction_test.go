package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/helpers"
)

type fakeTransactionStore struct {
	transactions []*models.Transaction

	upsertID     string
	upsertFields map[string]any
}

func (f *fakeTransactionStore) Upsert(ctx context.Context, id string, fields map[string]any) (*models.Transaction, error) {
	f.upsertID = id
	f.upsertFields = fields
	return &models.Transaction{ID: id, UserID: fields["userId"].(string)}, nil
}

func (f *fakeTransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	for _, tx := range f.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, errs.NewNotFoundError("transaction not found")
}

func (f *fakeTransactionStore) List(ctx context.Context, uid string) ([]*models.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeTransactionStore) Delete(ctx context.Context, id string) error {
	return nil
}

func (f *fakeTransactionStore) Subscribe(ctx context.Context, uid string) (<-chan []*models.Transaction, error) {
	ch := make(chan []*models.Transaction, 1)
	ch <- f.transactions
	close(ch)
	return ch, nil
}

func validTransactionRequest() dto.UpsertTransactionRequest {
	return dto.UpsertTransactionRequest{
		Amount:       helpers.Ptr(2500.0),
		ReceiverName: helpers.Ptr("Jane Doe"),
		Receiver:     helpers.Ptr("jane@example.com"),
		PaymentMode:  helpers.Ptr("bank"),
		Status:       helpers.Ptr(models.StatusPending),
		Date:         helpers.Ptr(time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)),
	}
}

func TestTransactionUpsertCreateMintsReference(t *testing.T) {
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store)

	_, err := svc.Upsert(helpers.TestCtx(), "uid-1", validTransactionRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ref, _ := store.upsertFields["referenceNumber"].(string)
	if !strings.HasPrefix(ref, "TXN-") || len(ref) != len("TXN-")+8 {
		t.Fatalf("unexpected reference: %q", ref)
	}
}

func TestTransactionUpsertValidation(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionStore{})

	badReceiver := validTransactionRequest()
	badReceiver.Receiver = helpers.Ptr("not-an-email")

	badStatus := validTransactionRequest()
	badStatus.Status = helpers.Ptr("settled")

	badAmount := validTransactionRequest()
	badAmount.Amount = helpers.Ptr(-10.0)

	for name, req := range map[string]dto.UpsertTransactionRequest{
		"receiver without @": badReceiver,
		"unknown status":     badStatus,
		"negative amount":    badAmount,
		"missing fields":     {Amount: helpers.Ptr(10.0)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upsert(helpers.TestCtx(), "uid-1", req)
			var verr *errs.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestTransactionListBadges(t *testing.T) {
	store := &fakeTransactionStore{transactions: []*models.Transaction{
		{ID: "t1", UserID: "uid-1", Amount: 1500, Status: models.StatusSuccess, ReferenceNumber: "TXN-AAAA1111"},
		{ID: "t2", UserID: "uid-1", Amount: 700, Status: models.StatusFailed, ReferenceNumber: "TXN-BBBB2222"},
		{ID: "t3", UserID: "uid-1", Amount: 900, Status: models.StatusPending, ReferenceNumber: "TXN-CCCC3333"},
	}}
	svc := NewTransactionService(store)

	table, err := svc.List(helpers.TestCtx(), "uid-1", dto.TableQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	badges := map[string]string{}
	for _, row := range table.Rows {
		badges[row.Status] = row.StatusBadge
	}
	if badges[models.StatusSuccess] != "success" ||
		badges[models.StatusFailed] != "destructive" ||
		badges[models.StatusPending] != "warning" {
		t.Fatalf("unexpected badges: %v", badges)
	}

	if table.Rows[0].AmountDisplay != "KES 1500.00" {
		t.Fatalf("unexpected display amount: %s", table.Rows[0].AmountDisplay)
	}
}

func TestTransactionListFiltersReference(t *testing.T) {
	store := &fakeTransactionStore{transactions: []*models.Transaction{
		{ID: "t1", UserID: "uid-1", ReferenceNumber: "TXN-AAAA1111"},
		{ID: "t2", UserID: "uid-1", ReferenceNumber: "TXN-BBBB2222"},
	}}
	svc := NewTransactionService(store)

	table, err := svc.List(helpers.TestCtx(), "uid-1", dto.TableQuery{Filter: "bbbb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Total != 1 || table.Rows[0].ID != "t2" {
		t.Fatalf("filter missed: %+v", table)
	}
}
