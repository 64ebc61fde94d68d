package services

import (
	"context"
	"errors"
	"fmt"
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

type incomeISStore interface {
	Upsert(ctx context.Context, id string, fields map[string]any) (*models.Income, error)
	Get(ctx context.Context, id string) (*models.Income, error)
	List(ctx context.Context, uid string) ([]*models.Income, error)
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, uid string) (<-chan []*models.Income, error)
}

type incomeService struct {
	store incomeISStore
}

func NewIncomeService(store incomeISStore) *incomeService {
	return &incomeService{store: store}
}

// Upsert creates or edits an income record. Edits merge the submitted
// fields over the stored document; the schedule value is carried as an
// opaque string and is not cross-checked against the period.
func (s *incomeService) Upsert(ctx context.Context, uid string, req dto.UpsertIncomeRequest) (*models.Income, error) {
	creating := req.ID == ""
	if creating {
		if req.Source == nil || req.Amount == nil || req.Period == nil {
			return nil, errs.NewValidationError("source, amount and period are required")
		}
		req.ID = uuid.NewString()
	} else {
		existing, err := s.store.Get(ctx, req.ID)
		if err != nil {
			// an unknown id is a create with a client-chosen id
			var nf *errs.NotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
		} else if existing.UserID != uid {
			return nil, errs.NewNotFoundError("income not found")
		}
	}

	if req.Amount != nil && *req.Amount <= 0 {
		return nil, errs.NewValidationError("amount must be positive")
	}
	if req.Period != nil && !models.ValidPeriod(*req.Period) {
		return nil, errs.NewValidationError("period must be one of daily, weekly, monthly, annually")
	}
	if req.Source != nil && *req.Source == "" {
		return nil, errs.NewValidationError("source is required")
	}

	fields := map[string]any{
		"id":     req.ID,
		"userId": uid,
	}
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.Period != nil {
		fields["period"] = *req.Period
	}
	if req.Schedule != nil {
		fields["schedule"] = *req.Schedule
	}

	return s.store.Upsert(ctx, req.ID, fields)
}

// List applies the table state (filter on source, sort, fixed-size
// pages) over the owner's records.
func (s *incomeService) List(ctx context.Context, uid string, q dto.TableQuery) (*dto.IncomeTableResponse, error) {
	incomes, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	if q.Filter != "" {
		filtered := make([]*models.Income, 0, len(incomes))
		for _, in := range incomes {
			if strings.Contains(strings.ToLower(in.Source), strings.ToLower(q.Filter)) {
				filtered = append(filtered, in)
			}
		}
		incomes = filtered
	}

	sortIncomes(incomes, q.SortBy, q.Desc)

	total := len(incomes)
	page, pageCount, start, end := paginate(total, q.Page)

	rows := make([]dto.IncomeRow, 0, end-start)
	for _, in := range incomes[start:end] {
		rows = append(rows, dto.IncomeRow{
			Income:        *in,
			AmountDisplay: helpers.KES(in.Amount),
		})
	}

	return &dto.IncomeTableResponse{
		Rows:      rows,
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	}, nil
}

func (s *incomeService) Delete(ctx context.Context, uid, id string) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != uid {
		return errs.NewNotFoundError("income not found")
	}
	return s.store.Delete(ctx, id)
}

func (s *incomeService) Subscribe(ctx context.Context, uid string) (<-chan []*models.Income, error) {
	return s.store.Subscribe(ctx, uid)
}

// Export flattens the owner's records into a labeled table.
func (s *incomeService) Export(ctx context.Context, uid string, format export.Format) (*export.Artifact, error) {
	incomes, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(incomes) == 0 {
		logger.FromContext(ctx).Warn("no income records to export")
		return nil, export.ErrNoData
	}

	rows := make([][]string, 0, len(incomes))
	for _, in := range incomes {
		rows = append(rows, []string{
			in.Source,
			strconv.FormatFloat(in.Amount, 'f', -1, 64),
			in.Period,
			in.Schedule,
			in.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
		})
	}

	return export.Render(export.Table{
		Title:   "income",
		Columns: []string{"Source", "Amount", "Period", "Schedule", "Created At"},
		Rows:    rows,
	}, format)
}

// ScheduleOptions returns the option set for a recurrence period:
// five-minute times for daily, weekday names for weekly, 1-31 for
// monthly, month names for annually.
func (s *incomeService) ScheduleOptions(period string) ([]string, error) {
	switch period {
	case models.PeriodDaily:
		options := make([]string, 0, 288)
		for hour := 0; hour < 24; hour++ {
			for minute := 0; minute < 60; minute += 5 {
				options = append(options, fmt.Sprintf("%02d:%02d", hour, minute))
			}
		}
		return options, nil
	case models.PeriodWeekly:
		return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}, nil
	case models.PeriodMonthly:
		options := make([]string, 0, 31)
		for day := 1; day <= 31; day++ {
			options = append(options, strconv.Itoa(day))
		}
		return options, nil
	case models.PeriodAnnually:
		return []string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"}, nil
	default:
		return nil, errs.NewValidationError("period must be one of daily, weekly, monthly, annually")
	}
}

func sortIncomes(incomes []*models.Income, sortBy string, desc bool) {
	var less func(a, b *models.Income) bool
	switch sortBy {
	case "source":
		less = func(a, b *models.Income) bool { return a.Source < b.Source }
	case "amount":
		less = func(a, b *models.Income) bool { return a.Amount < b.Amount }
	case "period":
		less = func(a, b *models.Income) bool { return a.Period < b.Period }
	case "schedule":
		less = func(a, b *models.Income) bool { return a.Schedule < b.Schedule }
	default:
		// store order: createdAt descending
		return
	}
	sort.SliceStable(incomes, func(i, j int) bool {
		if desc {
			return less(incomes[j], incomes[i])
		}
		return less(incomes[i], incomes[j])
	})
}

// paginate clamps a page index over the fixed table page size.
func paginate(total, page int) (clamped, pageCount, start, end int) {
	pageCount = (total + dto.TablePageSize - 1) / dto.TablePageSize
	if pageCount == 0 {
		pageCount = 1
	}
	clamped = page
	if clamped < 0 {
		clamped = 0
	}
	if clamped >= pageCount {
		clamped = pageCount - 1
	}
	start = clamped * dto.TablePageSize
	end = start + dto.TablePageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return clamped, pageCount, start, end
}
