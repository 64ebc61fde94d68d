package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/export"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/helpers"
	"github.com/pennywise-app/pennywise-backend/pkg/logger"
)

type transactionTSStore interface {
	Upsert(ctx context.Context, id string, fields map[string]any) (*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, uid string) ([]*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, uid string) (<-chan []*models.Transaction, error)
}

type transactionService struct {
	store transactionTSStore
}

func NewTransactionService(store transactionTSStore) *transactionService {
	return &transactionService{store: store}
}

func (s *transactionService) Upsert(ctx context.Context, uid string, req dto.UpsertTransactionRequest) (*models.Transaction, error) {
	creating := req.ID == ""
	if creating {
		if req.Amount == nil || req.ReceiverName == nil || req.Receiver == nil || req.PaymentMode == nil || req.Status == nil || req.Date == nil {
			return nil, errs.NewValidationError("amount, receiverName, receiver, paymentMode, status and date are required")
		}
		req.ID = uuid.NewString()
	} else {
		existing, err := s.store.Get(ctx, req.ID)
		if err != nil {
			var nf *errs.NotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
		} else if existing.UserID != uid {
			return nil, errs.NewNotFoundError("transaction not found")
		}
	}

	if req.Amount != nil && *req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	if req.Receiver != nil && !strings.Contains(*req.Receiver, "@") {
		return nil, errs.NewValidationError("receiver must be an email address")
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		return nil, errs.NewValidationError("status must be one of pending, success, failed")
	}
	if req.ReceiverName != nil && *req.ReceiverName == "" {
		return nil, errs.NewValidationError("receiverName is required")
	}

	fields := map[string]any{
		"id":     req.ID,
		"userId": uid,
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.ReceiverName != nil {
		fields["receiverName"] = *req.ReceiverName
	}
	if req.Receiver != nil {
		fields["receiver"] = *req.Receiver
	}
	if req.PaymentMode != nil {
		fields["paymentMode"] = *req.PaymentMode
	}
	if req.Note != nil {
		fields["note"] = *req.Note
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Date != nil {
		fields["date"] = *req.Date
	}
	if creating {
		fields["referenceNumber"] = newReference("TXN")
	}

	return s.store.Upsert(ctx, req.ID, fields)
}

func (s *transactionService) List(ctx context.Context, uid string, q dto.TableQuery) (*dto.TransactionTableResponse, error) {
	transactions, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	if q.Filter != "" {
		filtered := make([]*models.Transaction, 0, len(transactions))
		for _, t := range transactions {
			if strings.Contains(strings.ToLower(t.ReferenceNumber), strings.ToLower(q.Filter)) {
				filtered = append(filtered, t)
			}
		}
		transactions = filtered
	}

	sortTransactions(transactions, q.SortBy, q.Desc)

	total := len(transactions)
	page, pageCount, start, end := paginate(total, q.Page)

	rows := make([]dto.TransactionRow, 0, end-start)
	for _, t := range transactions[start:end] {
		rows = append(rows, dto.TransactionRow{
			Transaction:   *t,
			AmountDisplay: helpers.KES(t.Amount),
			StatusBadge:   models.StatusBadge(t.Status),
		})
	}

	return &dto.TransactionTableResponse{
		Rows:      rows,
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	}, nil
}

func (s *transactionService) Delete(ctx context.Context, uid, id string) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != uid {
		return errs.NewNotFoundError("transaction not found")
	}
	return s.store.Delete(ctx, id)
}

func (s *transactionService) Subscribe(ctx context.Context, uid string) (<-chan []*models.Transaction, error) {
	return s.store.Subscribe(ctx, uid)
}

func (s *transactionService) Export(ctx context.Context, uid string, format export.Format) (*export.Artifact, error) {
	transactions, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		logger.FromContext(ctx).Warn("no transaction records to export")
		return nil, export.ErrNoData
	}

	rows := make([][]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []string{
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.ReceiverName,
			t.Receiver,
			t.PaymentMode,
			t.Status,
			t.ReferenceNumber,
			t.Date.Format("Jan 2, 2006 3:04 PM"),
		})
	}

	return export.Render(export.Table{
		Title:   "transactions",
		Columns: []string{"Amount", "Receiver Name", "Receiver", "Payment Mode", "Status", "Reference Number", "Date"},
		Rows:    rows,
	}, format)
}

func sortTransactions(transactions []*models.Transaction, sortBy string, desc bool) {
	var less func(a, b *models.Transaction) bool
	switch sortBy {
	case "amount":
		less = func(a, b *models.Transaction) bool { return a.Amount < b.Amount }
	case "receiverName":
		less = func(a, b *models.Transaction) bool { return a.ReceiverName < b.ReceiverName }
	case "paymentMode":
		less = func(a, b *models.Transaction) bool { return a.PaymentMode < b.PaymentMode }
	case "status":
		less = func(a, b *models.Transaction) bool { return a.Status < b.Status }
	case "referenceNumber":
		less = func(a, b *models.Transaction) bool { return a.ReferenceNumber < b.ReferenceNumber }
	case "date":
		less = func(a, b *models.Transaction) bool { return a.Date.Before(b.Date) }
	default:
		return
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		if desc {
			return less(transactions[j], transactions[i])
		}
		return less(transactions[i], transactions[j])
	})
}
