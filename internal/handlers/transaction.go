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

type TransactionService interface {
	Upsert(ctx context.Context, uid string, req dto.UpsertTransactionRequest) (*models.Transaction, error)
	List(ctx context.Context, uid string, q dto.TableQuery) (*dto.TransactionTableResponse, error)
	Delete(ctx context.Context, uid, id string) error
	Export(ctx context.Context, uid string, format export.Format) (*export.Artifact, error)
	Subscribe(ctx context.Context, uid string) (<-chan []*models.Transaction, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  TransactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Upsert)
	r.Get("/export", h.Export)
	r.Get("/stream", h.Stream)
	r.Delete("/{transactionId}", h.Delete)
	return r
}

func (h *transactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	table, err := h.TransactionSvc.List(r.Context(), uid, parseTableQuery(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, table)
}

func (h *transactionHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	transaction, err := h.TransactionSvc.Upsert(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, transaction)
}

func (h *transactionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.TransactionSvc.Delete(r.Context(), uid, chi.URLParam(r, "transactionId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) Export(w http.ResponseWriter, r *http.Request) {
	format, err := parseExportFormat(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	artifact, err := h.TransactionSvc.Export(r.Context(), uid, format)
	writeExport(w, r, h.ResponseHandler, artifact, err)
}

func (h *transactionHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	snapshots, err := h.TransactionSvc.Subscribe(r.Context(), uid)
	streamSnapshots(w, r, h.ResponseHandler, snapshots, err)
}
