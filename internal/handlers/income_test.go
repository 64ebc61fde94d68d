package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/export"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
	"github.com/pennywise-app/pennywise-backend/internal/models"
)

type stubIncomeService struct {
	uid   string
	query dto.TableQuery
	req   dto.UpsertIncomeRequest

	table    *dto.IncomeTableResponse
	income   *models.Income
	artifact *export.Artifact
	options  []string
	err      error
}

func (s *stubIncomeService) Upsert(ctx context.Context, uid string, req dto.UpsertIncomeRequest) (*models.Income, error) {
	s.uid = uid
	s.req = req
	return s.income, s.err
}

func (s *stubIncomeService) List(ctx context.Context, uid string, q dto.TableQuery) (*dto.IncomeTableResponse, error) {
	s.uid = uid
	s.query = q
	return s.table, s.err
}

func (s *stubIncomeService) Delete(ctx context.Context, uid, id string) error {
	s.uid = uid
	return s.err
}

func (s *stubIncomeService) Export(ctx context.Context, uid string, format export.Format) (*export.Artifact, error) {
	s.uid = uid
	return s.artifact, s.err
}

func (s *stubIncomeService) ScheduleOptions(period string) ([]string, error) {
	return s.options, s.err
}

func (s *stubIncomeService) Subscribe(ctx context.Context, uid string) (<-chan []*models.Income, error) {
	ch := make(chan []*models.Income)
	close(ch)
	return ch, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UIDKey, "uid-123")
	return req.WithContext(ctx)
}

func TestIncomeListParsesTableQuery(t *testing.T) {
	svc := &stubIncomeService{table: &dto.IncomeTableResponse{}}
	resp := &stubResponseHandler{}
	h := NewIncomeHandlers(&Deps{ResponseHandler: resp, IncomeSvc: svc})

	req := authedRequest(http.MethodGet, "/api/income?sortBy=amount&order=desc&filter=sal&page=2", "")
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if svc.uid != "uid-123" {
		t.Fatalf("wrong uid: %s", svc.uid)
	}
	want := dto.TableQuery{SortBy: "amount", Desc: true, Filter: "sal", Page: 2}
	if svc.query != want {
		t.Fatalf("unexpected query: %+v", svc.query)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatal("WriteSuccess not called with status 200")
	}
}

func TestIncomeUpsertDecodesBody(t *testing.T) {
	svc := &stubIncomeService{income: &models.Income{ID: "inc-1"}}
	resp := &stubResponseHandler{}
	h := NewIncomeHandlers(&Deps{ResponseHandler: resp, IncomeSvc: svc})

	body := `{"source":"Salary","amount":50000,"period":"monthly","schedule":"15"}`
	req := authedRequest(http.MethodPost, "/api/income", body)
	rr := httptest.NewRecorder()
	h.Upsert(rr, req)

	if svc.req.Source == nil || *svc.req.Source != "Salary" {
		t.Fatalf("body not decoded: %+v", svc.req)
	}
	if !resp.writeSuccessCalled {
		t.Fatal("WriteSuccess not called")
	}
}

func TestIncomeUpsertInvalidJSON(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewIncomeHandlers(&Deps{ResponseHandler: resp, IncomeSvc: &stubIncomeService{}})

	req := authedRequest(http.MethodPost, "/api/income", "not-json")
	rr := httptest.NewRecorder()
	h.Upsert(rr, req)

	var verr *errs.ValidationError
	if !errors.As(resp.handleError, &verr) {
		t.Fatalf("expected a validation error, got %v", resp.handleError)
	}
}

func TestIncomeExportDownload(t *testing.T) {
	svc := &stubIncomeService{artifact: &export.Artifact{
		Filename:    "income.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("Source,Amount\nSalary,100"),
	}}
	h := NewIncomeHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, IncomeSvc: svc})

	req := authedRequest(http.MethodGet, "/api/income/export?format=csv", "")
	rr := httptest.NewRecorder()
	h.Export(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="income.csv"` {
		t.Fatalf("unexpected disposition: %s", got)
	}
	if rr.Body.String() != "Source,Amount\nSalary,100" {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestIncomeExportEmptySet(t *testing.T) {
	svc := &stubIncomeService{err: export.ErrNoData}
	h := NewIncomeHandlers(&Deps{ResponseHandler: &stubResponseHandler{}, IncomeSvc: svc})

	req := authedRequest(http.MethodGet, "/api/income/export", "")
	rr := httptest.NewRecorder()
	h.Export(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected an empty body, got %q", rr.Body.String())
	}
}

func TestIncomeExportUnknownFormat(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewIncomeHandlers(&Deps{ResponseHandler: resp, IncomeSvc: &stubIncomeService{}})

	req := authedRequest(http.MethodGet, "/api/income/export?format=docx", "")
	rr := httptest.NewRecorder()
	h.Export(rr, req)

	var verr *errs.ValidationError
	if !errors.As(resp.handleError, &verr) {
		t.Fatalf("expected a validation error, got %v", resp.handleError)
	}
}

func TestIncomeScheduleOptions(t *testing.T) {
	svc := &stubIncomeService{options: []string{"Monday", "Tuesday"}}
	resp := &stubResponseHandler{}
	h := NewIncomeHandlers(&Deps{ResponseHandler: resp, IncomeSvc: svc})

	req := authedRequest(http.MethodGet, "/api/income/schedule-options?period=weekly", "")
	rr := httptest.NewRecorder()
	h.ScheduleOptions(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("WriteSuccess not called")
	}
	options, ok := resp.writeSuccessData.([]string)
	if !ok || len(options) != 2 {
		t.Fatalf("unexpected payload: %+v", resp.writeSuccessData)
	}
}

func TestIncomeStreamEmitsEvents(t *testing.T) {
	ch := make(chan []*models.Income, 1)
	ch <- []*models.Income{{ID: "inc-1", Source: "Salary"}}
	close(ch)

	req := authedRequest(http.MethodGet, "/api/income/stream", "")
	rr := httptest.NewRecorder()
	streamSnapshots(rr, req, &stubResponseHandler{}, (<-chan []*models.Income)(ch), nil)

	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "data: ") || !strings.Contains(body, `"source":"Salary"`) {
		t.Fatalf("unexpected stream body: %q", body)
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Fatalf("event frame not terminated: %q", body)
	}
}
