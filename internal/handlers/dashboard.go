package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
	"github.com/pennywise-app/pennywise-backend/internal/response"
)

type AnalyticsService interface {
	IncomeSources(ctx context.Context, uid string) (*dto.IncomeSourcesResponse, error)
	IncomeExpense(ctx context.Context, uid string, year int) (*dto.IncomeExpenseResponse, error)
	MonthlyExpenditure(ctx context.Context, uid string, year, month int) (*dto.MonthlyExpenditureResponse, error)
	RecentTransactions(ctx context.Context, uid string, limit int) (*dto.RecentTransactionsResponse, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	AnalyticsSvc    AnalyticsService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		AnalyticsSvc:    deps.AnalyticsSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/income-sources", h.IncomeSources)
	r.Get("/income-expense", h.IncomeExpense)
	r.Get("/monthly-expenditure", h.MonthlyExpenditure)
	r.Get("/recent-transactions", h.RecentTransactions)
	return r
}

func (h *dashboardHandlers) IncomeSources(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	resp, err := h.AnalyticsSvc.IncomeSources(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) IncomeExpense(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	resp, err := h.AnalyticsSvc.IncomeExpense(r.Context(), uid, year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) MonthlyExpenditure(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	month := int(time.Now().Month())
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("month must be a number"))
			return
		}
	}

	uid := middleware.UID(r.Context())
	resp, err := h.AnalyticsSvc.MonthlyExpenditure(r.Context(), uid, year, month)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	uid := middleware.UID(r.Context())
	resp, err := h.AnalyticsSvc.RecentTransactions(r.Context(), uid, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

// yearParam defaults to the current year when absent.
func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidationError("year must be a number")
	}
	return year, nil
}
