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

type expenseESStore interface {
	Upsert(ctx context.Context, id string, fields map[string]any) (*models.Expense, error)
	Get(ctx context.Context, id string) (*models.Expense, error)
	List(ctx context.Context, uid string) ([]*models.Expense, error)
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, uid string) (<-chan []*models.Expense, error)
}

type expenseService struct {
	store expenseESStore
}

func NewExpenseService(store expenseESStore) *expenseService {
	return &expenseService{store: store}
}

func (s *expenseService) Upsert(ctx context.Context, uid string, req dto.UpsertExpenseRequest) (*models.Expense, error) {
	creating := req.ID == ""
	if creating {
		if req.Amount == nil || req.ExpenditureType == nil || req.PaymentMethod == nil || req.DateSpent == nil {
			return nil, errs.NewValidationError("amount, expenditureType, paymentMethod and dateSpent are required")
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
			return nil, errs.NewNotFoundError("expense not found")
		}
	}

	if req.Amount != nil && *req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	if req.ExpenditureType != nil && *req.ExpenditureType == "" {
		return nil, errs.NewValidationError("expenditureType is required")
	}
	if req.PaymentMethod != nil && *req.PaymentMethod == "" {
		return nil, errs.NewValidationError("paymentMethod is required")
	}

	fields := map[string]any{
		"id":     req.ID,
		"userId": uid,
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.ExpenditureType != nil {
		fields["expenditureType"] = *req.ExpenditureType
	}
	if req.PaymentMethod != nil {
		fields["paymentMethod"] = *req.PaymentMethod
	}
	if req.Note != nil {
		fields["note"] = *req.Note
	}
	if req.DateSpent != nil {
		fields["dateSpent"] = *req.DateSpent
	}
	if req.ReferenceNumber != nil && *req.ReferenceNumber != "" {
		fields["referenceNumber"] = *req.ReferenceNumber
	} else if creating {
		fields["referenceNumber"] = newReference("EXP")
	}

	return s.store.Upsert(ctx, req.ID, fields)
}

func (s *expenseService) List(ctx context.Context, uid string, q dto.TableQuery) (*dto.ExpenseTableResponse, error) {
	expenses, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	if q.Filter != "" {
		filtered := make([]*models.Expense, 0, len(expenses))
		for _, e := range expenses {
			if strings.Contains(strings.ToLower(e.ReferenceNumber), strings.ToLower(q.Filter)) {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}

	sortExpenses(expenses, q.SortBy, q.Desc)

	total := len(expenses)
	page, pageCount, start, end := paginate(total, q.Page)

	rows := make([]dto.ExpenseRow, 0, end-start)
	for _, e := range expenses[start:end] {
		rows = append(rows, dto.ExpenseRow{
			Expense:       *e,
			AmountDisplay: helpers.KES(e.Amount),
		})
	}

	return &dto.ExpenseTableResponse{
		Rows:      rows,
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	}, nil
}

func (s *expenseService) Delete(ctx context.Context, uid, id string) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != uid {
		return errs.NewNotFoundError("expense not found")
	}
	return s.store.Delete(ctx, id)
}

func (s *expenseService) Subscribe(ctx context.Context, uid string) (<-chan []*models.Expense, error) {
	return s.store.Subscribe(ctx, uid)
}

func (s *expenseService) Export(ctx context.Context, uid string, format export.Format) (*export.Artifact, error) {
	expenses, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		logger.FromContext(ctx).Warn("no expense records to export")
		return nil, export.ErrNoData
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.DateSpent.Format("Jan 2, 2006"),
			e.ExpenditureType,
			e.PaymentMethod,
			e.ReferenceNumber,
			e.Note,
		})
	}

	return export.Render(export.Table{
		Title:   "expenses",
		Columns: []string{"Amount", "Date Spent", "Expenditure Type", "Payment Method", "Reference Number", "Note"},
		Rows:    rows,
	}, format)
}

func sortExpenses(expenses []*models.Expense, sortBy string, desc bool) {
	var less func(a, b *models.Expense) bool
	switch sortBy {
	case "amount":
		less = func(a, b *models.Expense) bool { return a.Amount < b.Amount }
	case "expenditureType":
		less = func(a, b *models.Expense) bool { return a.ExpenditureType < b.ExpenditureType }
	case "paymentMethod":
		less = func(a, b *models.Expense) bool { return a.PaymentMethod < b.PaymentMethod }
	case "referenceNumber":
		less = func(a, b *models.Expense) bool { return a.ReferenceNumber < b.ReferenceNumber }
	case "dateSpent":
		less = func(a, b *models.Expense) bool { return a.DateSpent.Before(b.DateSpent) }
	default:
		return
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		if desc {
			return less(expenses[j], expenses[i])
		}
		return less(expenses[i], expenses[j])
	})
}

// newReference mints a short display reference like EXP-1B2C3D4E.
func newReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}
