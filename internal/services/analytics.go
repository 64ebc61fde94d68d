package services

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/helpers"
)

type analyticsIncomeStore interface {
	List(ctx context.Context, uid string) ([]*models.Income, error)
}

type analyticsExpenseStore interface {
	ListByDateSpent(ctx context.Context, uid string, from, to time.Time) ([]*models.Expense, error)
}

type analyticsTransactionStore interface {
	ListRecent(ctx context.Context, uid string, limit int) ([]*models.Transaction, error)
}

type analyticsService struct {
	incomes      analyticsIncomeStore
	expenses     analyticsExpenseStore
	transactions analyticsTransactionStore
}

func NewAnalyticsService(incomes analyticsIncomeStore, expenses analyticsExpenseStore, transactions analyticsTransactionStore) *analyticsService {
	return &analyticsService{incomes: incomes, expenses: expenses, transactions: transactions}
}

// IncomeSources returns the five most recent income sources plus the
// sum across all of the owner's sources.
func (s *analyticsService) IncomeSources(ctx context.Context, uid string) (*dto.IncomeSourcesResponse, error) {
	all, err := s.incomes.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, in := range all {
		total += in.Amount
	}

	sources := all
	if len(sources) > 5 {
		sources = sources[:5]
	}

	return &dto.IncomeSourcesResponse{
		Total:        total,
		TotalDisplay: helpers.KESCompact(total),
		Sources:      sources,
	}, nil
}

// IncomeExpense buckets a calendar year of income and expenses by
// month. Income buckets on the record's creation time, expenses on
// the date spent.
func (s *analyticsService) IncomeExpense(ctx context.Context, uid string, year int) (*dto.IncomeExpenseResponse, error) {
	if year < 1970 || year > 9999 {
		return nil, errs.NewValidationError("year is out of range")
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	incomes, err := s.incomes.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListByDateSpent(ctx, uid, from, to)
	if err != nil {
		return nil, err
	}

	months := make([]dto.MonthBucket, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1).String()[:3]
	}
	for _, in := range incomes {
		if in.CreatedAt.Year() == year {
			months[in.CreatedAt.Month()-1].Income += in.Amount
		}
	}
	for _, e := range expenses {
		months[e.DateSpent.Month()-1].Expenses += e.Amount
	}

	var net float64
	for _, m := range months {
		net += m.Income - m.Expenses
	}

	return &dto.IncomeExpenseResponse{
		Year:              year,
		Months:            months,
		NetSavings:        net,
		NetSavingsDisplay: helpers.KESCompact(net),
	}, nil
}

// MonthlyExpenditure totals one month's expenses by expenditure type
// and ranks the top four categories with their share of the total.
func (s *analyticsService) MonthlyExpenditure(ctx context.Context, uid string, year, month int) (*dto.MonthlyExpenditureResponse, error) {
	if month < 1 || month > 12 {
		return nil, errs.NewValidationError("month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return nil, errs.NewValidationError("year is out of range")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	expenses, err := s.expenses.ListByDateSpent(ctx, uid, from, to)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]float64{}
	var total float64
	for _, e := range expenses {
		byCategory[e.ExpenditureType] += e.Amount
		total += e.Amount
	}

	chart := make([]dto.CategoryTotal, 0, len(byCategory))
	for category, sum := range byCategory {
		chart = append(chart, dto.CategoryTotal{Category: category, Total: sum})
	}
	sort.Slice(chart, func(i, j int) bool {
		if chart[i].Total != chart[j].Total {
			return chart[i].Total > chart[j].Total
		}
		return chart[i].Category < chart[j].Category
	})

	top := make([]dto.CategoryShare, 0, 4)
	for _, c := range chart {
		if len(top) == 4 {
			break
		}
		share := dto.CategoryShare{Category: c.Category, Total: c.Total}
		if total > 0 {
			share.Percentage = strconv.Itoa(int(math.Round(c.Total/total*100))) + "%"
		} else {
			share.Percentage = "0%"
		}
		top = append(top, share)
	}

	return &dto.MonthlyExpenditureResponse{
		Year:         year,
		Month:        month,
		Total:        total,
		TotalDisplay: helpers.KESCompact(total),
		Chart:        chart,
		Top:          top,
	}, nil
}

// RecentTransactions returns the latest transactions with display
// fields attached. Limit defaults to 5 and is capped at 50.
func (s *analyticsService) RecentTransactions(ctx context.Context, uid string, limit int) (*dto.RecentTransactionsResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	transactions, err := s.transactions.ListRecent(ctx, uid, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, dto.TransactionRow{
			Transaction:   *t,
			AmountDisplay: helpers.KES(t.Amount),
			StatusBadge:   models.StatusBadge(t.Status),
		})
	}

	return &dto.RecentTransactionsResponse{Transactions: rows}, nil
}
