package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/export"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/internal/response"
)

type ExpenseService interface {
	Upsert(ctx context.Context, uid string, req dto.UpsertExpenseRequest) (*models.Expense, error)
	List(ctx context.Context, uid string, q dto.TableQuery) (*dto.ExpenseTableResponse, error)
	Delete(ctx context.Context, uid, id string) error
	Export(ctx context.Context, uid string, format export.Format) (*export.Artifact, error)
	Subscribe(ctx context.Context, uid string) (<-chan []*models.Expense, error)
}

type expenseHandlers struct {
	ResponseHandler response.ResponseHandler
	ExpenseSvc      ExpenseService
}

func NewExpenseHandlers(deps *Deps) *expenseHandlers {
	return &expenseHandlers{
		ResponseHandler: deps.ResponseHandler,
		ExpenseSvc:      deps.ExpenseSvc,
	}
}

func (h *expenseHandlers) ExpenseRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Upsert)
	r.Get("/export", h.Export)
	r.Get("/stream", h.Stream)
	r.Delete("/{expenseId}", h.Delete)
	return r
}

func (h *expenseHandlers) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	table, err := h.ExpenseSvc.List(r.Context(), uid, parseTableQuery(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, table)
}

func (h *expenseHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	expense, err := h.ExpenseSvc.Upsert(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, expense)
}

func (h *expenseHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.ExpenseSvc.Delete(r.Context(), uid, chi.URLParam(r, "expenseId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *expenseHandlers) Export(w http.ResponseWriter, r *http.Request) {
	format, err := parseExportFormat(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	artifact, err := h.ExpenseSvc.Export(r.Context(), uid, format)
	writeExport(w, r, h.ResponseHandler, artifact, err)
}

func (h *expenseHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	snapshots, err := h.ExpenseSvc.Subscribe(r.Context(), uid)
	streamSnapshots(w, r, h.ResponseHandler, snapshots, err)
}
