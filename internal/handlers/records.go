package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pennywise-app/pennywise-backend/internal/dto"
	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/export"
	"github.com/pennywise-app/pennywise-backend/internal/response"
)

// parseTableQuery reads the table state from the query string:
// ?sortBy=amount&order=desc&filter=salary&page=2
func parseTableQuery(r *http.Request) dto.TableQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	return dto.TableQuery{
		SortBy: q.Get("sortBy"),
		Desc:   q.Get("order") == "desc",
		Filter: q.Get("filter"),
		Page:   page,
	}
}

func parseExportFormat(r *http.Request) (export.Format, error) {
	format := export.Format(r.URL.Query().Get("format"))
	switch format {
	case export.FormatCSV, export.FormatExcel, export.FormatPDF:
		return format, nil
	case "":
		return export.FormatCSV, nil
	default:
		return "", errs.NewValidationError("format must be one of csv, excel, pdf")
	}
}

// writeExport sends a rendered artifact as a file download. An empty
// record set yields 204 with no body.
func writeExport(w http.ResponseWriter, r *http.Request, rh response.ResponseHandler, artifact *export.Artifact, err error) {
	if errors.Is(err, export.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		rh.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Data)
}

// streamSnapshots relays query snapshots as server-sent events until
// the client disconnects. Each snapshot is one "data:" frame holding
// the full result set.
func streamSnapshots[T any](w http.ResponseWriter, r *http.Request, rh response.ResponseHandler, snapshots <-chan []T, err error) {
	if err != nil {
		rh.HandleError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		rh.HandleError(w, r, errs.NewValidationError("streaming is not supported on this connection"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case records, open := <-snapshots:
			if !open {
				return
			}
			payload, err := json.Marshal(records)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
