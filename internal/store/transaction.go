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

// Encrypter protects the receiver contact at rest.
type Encrypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type transactionStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
	enc        Encrypter
}

func NewTransactionStore(client *firestore.Client, enc Encrypter) *transactionStore {
	return &transactionStore{
		client:     client,
		collection: client.Collection("transactions"),
		enc:        enc,
	}
}

func (s *transactionStore) Upsert(ctx context.Context, id string, fields map[string]any) (*models.Transaction, error) {
	doc := s.collection.Doc(id)

	if receiver, ok := fields["receiver"].(string); ok {
		sealed, err := s.enc.Encrypt(ctx, receiver)
		if err != nil {
			return nil, errs.NewExternalServiceError("kms", "failed to encrypt receiver contact", false)
		}
		fields["receiver"] = sealed
	}

	_, err := doc.Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, errs.NewDatabaseError("read", "failed to check transaction", err)
		}
		fields["createdAt"] = time.Now()
	}

	if _, err := doc.Set(ctx, fields, firestore.MergeAll); err != nil {
		return nil, errs.NewDatabaseError("write", "failed to save transaction", err)
	}
	return s.Get(ctx, id)
}

func (s *transactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	doc, err := s.collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction", err)
	}
	return s.transactionFromDoc(ctx, doc)
}

func (s *transactionStore) query(uid string) firestore.Query {
	return s.collection.Where("userId", "==", uid).OrderBy("createdAt", firestore.Desc)
}

func (s *transactionStore) List(ctx context.Context, uid string) ([]*models.Transaction, error) {
	docs, err := s.query(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
	}
	return s.transactionsFromDocs(ctx, docs)
}

func (s *transactionStore) ListRecent(ctx context.Context, uid string, limit int) ([]*models.Transaction, error) {
	docs, err := s.query(uid).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list recent transactions", err)
	}
	return s.transactionsFromDocs(ctx, docs)
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

func (s *transactionStore) Subscribe(ctx context.Context, uid string) (<-chan []*models.Transaction, error) {
	ch := make(chan []*models.Transaction, 1)
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
			txs, err := s.transactionsFromDocs(ctx, docs)
			if err != nil {
				return
			}
			select {
			case ch <- txs:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (s *transactionStore) transactionFromDoc(ctx context.Context, doc *firestore.DocumentSnapshot) (*models.Transaction, error) {
	var tx models.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	if tx.Receiver != "" {
		plain, err := s.enc.Decrypt(ctx, tx.Receiver)
		if err != nil {
			return nil, errs.NewExternalServiceError("kms", "failed to decrypt receiver contact", false)
		}
		tx.Receiver = plain
	}
	return &tx, nil
}

func (s *transactionStore) transactionsFromDocs(ctx context.Context, docs []*firestore.DocumentSnapshot) ([]*models.Transaction, error) {
	txs := make([]*models.Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := s.transactionFromDoc(ctx, d)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
