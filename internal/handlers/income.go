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

type IncomeService interface {
	Upsert(ctx context.Context, uid string, req dto.UpsertIncomeRequest) (*models.Income, error)
	List(ctx context.Context, uid string, q dto.TableQuery) (*dto.IncomeTableResponse, error)
	Delete(ctx context.Context, uid, id string) error
	Export(ctx context.Context, uid string, format export.Format) (*export.Artifact, error)
	ScheduleOptions(period string) ([]string, error)
	Subscribe(ctx context.Context, uid string) (<-chan []*models.Income, error)
}

type incomeHandlers struct {
	ResponseHandler response.ResponseHandler
	IncomeSvc       IncomeService
}

func NewIncomeHandlers(deps *Deps) *incomeHandlers {
	return &incomeHandlers{
		ResponseHandler: deps.ResponseHandler,
		IncomeSvc:       deps.IncomeSvc,
	}
}

func (h *incomeHandlers) IncomeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Upsert)
	r.Get("/export", h.Export)
	r.Get("/stream", h.Stream)
	r.Get("/schedule-options", h.ScheduleOptions)
	r.Delete("/{incomeId}", h.Delete)
	return r
}

func (h *incomeHandlers) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	table, err := h.IncomeSvc.List(r.Context(), uid, parseTableQuery(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, table)
}

// Upsert handles both create and edit; a request without an id is a
// create.
func (h *incomeHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	income, err := h.IncomeSvc.Upsert(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, income)
}

func (h *incomeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.IncomeSvc.Delete(r.Context(), uid, chi.URLParam(r, "incomeId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *incomeHandlers) Export(w http.ResponseWriter, r *http.Request) {
	format, err := parseExportFormat(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	artifact, err := h.IncomeSvc.Export(r.Context(), uid, format)
	writeExport(w, r, h.ResponseHandler, artifact, err)
}

func (h *incomeHandlers) ScheduleOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.IncomeSvc.ScheduleOptions(r.URL.Query().Get("period"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, options)
}

func (h *incomeHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	snapshots, err := h.IncomeSvc.Subscribe(r.Context(), uid)
	streamSnapshots(w, r, h.ResponseHandler, snapshots, err)
}
