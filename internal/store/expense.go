package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
)

type expenseStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewExpenseStore(client *firestore.Client) *expenseStore {
	return &expenseStore{
		client:     client,
		collection: client.Collection("expenses"),
	}
}

func (s *expenseStore) Upsert(ctx context.Context, id string, fields map[string]any) (*models.Expense, error) {
	doc := s.collection.Doc(id)

	_, err := doc.Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, errs.NewDatabaseError("read", "failed to check expense", err)
		}
		fields["createdAt"] = time.Now()
	}

	if _, err := doc.Set(ctx, fields, firestore.MergeAll); err != nil {
		return nil, errs.NewDatabaseError("write", "failed to save expense", err)
	}
	return s.Get(ctx, id)
}

func (s *expenseStore) Get(ctx context.Context, id string) (*models.Expense, error) {
	doc, err := s.collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("expense not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get expense", err)
	}
	var expense models.Expense
	if err := doc.DataTo(&expense); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse expense data", err)
	}
	return &expense, nil
}

func (s *expenseStore) query(uid string) firestore.Query {
	return s.collection.Where("userId", "==", uid).OrderBy("createdAt", firestore.Desc)
}

func (s *expenseStore) List(ctx context.Context, uid string) ([]*models.Expense, error) {
	docs, err := s.query(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list expenses", err)
	}
	return expensesFromDocs(docs)
}

// ListByDateSpent returns the user's expenses within [from, to],
// ordered by dateSpent ascending, for the dashboard aggregations.
func (s *expenseStore) ListByDateSpent(ctx context.Context, uid string, from, to time.Time) ([]*models.Expense, error) {
	docs, err := s.collection.
		Where("userId", "==", uid).
		Where("dateSpent", ">=", from).
		Where("dateSpent", "<=", to).
		OrderBy("dateSpent", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list expenses by date", err)
	}
	return expensesFromDocs(docs)
}

func (s *expenseStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete expense", err)
	}
	return nil
}

func (s *expenseStore) Subscribe(ctx context.Context, uid string) (<-chan []*models.Expense, error) {
	ch := make(chan []*models.Expense, 1)
	it := s.query(uid).Snapshots(ctx)

	go func() {
		defer it.Stop()
		defer close(ch)
		for {
			snap, err := it.Next()
			if err != nil {
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				return
			}
			expenses, err := expensesFromDocs(docs)
			if err != nil {
				return
			}
			select {
			case ch <- expenses:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func expensesFromDocs(docs []*firestore.DocumentSnapshot) ([]*models.Expense, error) {
	expenses := make([]*models.Expense, 0, len(docs))
	for _, d := range docs {
		var expense models.Expense
		if err := d.DataTo(&expense); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse expense data", err)
		}
		expenses = append(expenses, &expense)
	}
	return expenses, nil
}
