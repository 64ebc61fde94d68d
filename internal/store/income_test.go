package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
)

func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIncomeUpsertWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	store := NewIncomeStore(client)
	ctx := context.Background()

	created, err := store.Upsert(ctx, "inc-1", map[string]any{
		"id":     "inc-1",
		"userId": "uid-1",
		"source": "Salary",
		"amount": 50000.0,
		"period": "monthly",
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("createdAt not stamped on create")
	}

	// merge-edit: only the amount changes, createdAt survives
	time.Sleep(10 * time.Millisecond)
	edited, err := store.Upsert(ctx, "inc-1", map[string]any{
		"id":     "inc-1",
		"userId": "uid-1",
		"amount": 60000.0,
	})
	if err != nil {
		t.Fatalf("edit error: %v", err)
	}
	if edited.Amount != 60000 {
		t.Fatalf("amount not updated: %f", edited.Amount)
	}
	if edited.Source != "Salary" {
		t.Fatalf("unsubmitted field lost: %q", edited.Source)
	}
	if !edited.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed on edit: %v -> %v", created.CreatedAt, edited.CreatedAt)
	}

	if err := store.Delete(ctx, "inc-1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := store.Get(ctx, "inc-1"); err == nil {
		t.Fatal("expected the record to be gone")
	}
}

func TestIncomeGetMissingWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	store := NewIncomeStore(client)

	_, err := store.Get(context.Background(), "does-not-exist")
	var nerr *errs.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestIncomeListOrderWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	store := NewIncomeStore(client)
	ctx := context.Background()

	base := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"ord-1", "ord-2", "ord-3"} {
		_, err := client.Collection("income").Doc(id).Set(ctx, map[string]any{
			"id":        id,
			"userId":    "uid-order",
			"source":    "Source",
			"amount":    100.0,
			"period":    "monthly",
			"createdAt": base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	incomes, err := store.List(ctx, "uid-order")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(incomes) != 3 {
		t.Fatalf("expected 3 records, got %d", len(incomes))
	}
	if incomes[0].ID != "ord-3" || incomes[2].ID != "ord-1" {
		t.Fatalf("not ordered newest first: %s, %s, %s", incomes[0].ID, incomes[1].ID, incomes[2].ID)
	}
}
