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

type incomeStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewIncomeStore(client *firestore.Client) *incomeStore {
	return &incomeStore{
		client:     client,
		collection: client.Collection("income"),
	}
}

// Upsert merge-writes the submitted fields under the record id. The
// creation timestamp is stamped only when the document does not exist
// yet; edits preserve it.
func (s *incomeStore) Upsert(ctx context.Context, id string, fields map[string]any) (*models.Income, error) {
	doc := s.collection.Doc(id)

	_, err := doc.Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, errs.NewDatabaseError("read", "failed to check income", err)
		}
		fields["createdAt"] = time.Now()
	}

	if _, err := doc.Set(ctx, fields, firestore.MergeAll); err != nil {
		return nil, errs.NewDatabaseError("write", "failed to save income", err)
	}
	return s.Get(ctx, id)
}

func (s *incomeStore) Get(ctx context.Context, id string) (*models.Income, error) {
	doc, err := s.collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("income not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get income", err)
	}
	var income models.Income
	if err := doc.DataTo(&income); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse income data", err)
	}
	return &income, nil
}

func (s *incomeStore) query(uid string) firestore.Query {
	return s.collection.Where("userId", "==", uid).OrderBy("createdAt", firestore.Desc)
}

func (s *incomeStore) List(ctx context.Context, uid string) ([]*models.Income, error) {
	docs, err := s.query(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list income", err)
	}
	return incomesFromDocs(docs)
}

func (s *incomeStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete income", err)
	}
	return nil
}

// Subscribe establishes a live query for the user's income records. The
// channel receives the full matching set on every snapshot and closes
// when ctx is cancelled.
func (s *incomeStore) Subscribe(ctx context.Context, uid string) (<-chan []*models.Income, error) {
	ch := make(chan []*models.Income, 1)
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
			incomes, err := incomesFromDocs(docs)
			if err != nil {
				return
			}
			select {
			case ch <- incomes:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func incomesFromDocs(docs []*firestore.DocumentSnapshot) ([]*models.Income, error) {
	incomes := make([]*models.Income, 0, len(docs))
	for _, d := range docs {
		var income models.Income
		if err := d.DataTo(&income); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse income data", err)
		}
		incomes = append(incomes, &income)
	}
	return incomes, nil
}
