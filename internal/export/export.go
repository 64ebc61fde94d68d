package export

import (
	"errors"
	"html"
	"strings"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// ErrNoData signals an empty record set; callers log a warning and
// produce no artifact.
var ErrNoData = errors.New("no data to export")

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Table is a flattened, human-labeled projection of a record set.
// Column order is fixed by the caller, so repeated exports of the same
// data are byte-identical.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Artifact is a downloadable export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Render serializes the table into the requested format.
func Render(t Table, format Format) (*Artifact, error) {
	if len(t.Rows) == 0 {
		return nil, ErrNoData
	}

	switch format {
	case FormatCSV:
		return renderCSV(t), nil
	case FormatExcel:
		return renderExcel(t), nil
	case FormatPDF:
		return renderPDF(t), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// renderCSV joins values with commas and rows with newlines. Values are
// deliberately not quoted or escaped; embedded commas corrupt the row.
func renderCSV(t Table) *Artifact {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Columns, ","))
	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, ","))
	}

	return &Artifact{
		Filename:    t.Title + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte(strings.Join(lines, "\n")),
	}
}

// renderExcel emits an HTML table under the Excel MIME type, which
// spreadsheet applications open as tabular data.
func renderExcel(t Table) *Artifact {
	var b strings.Builder
	writeHTMLTable(&b, t)

	return &Artifact{
		Filename:    t.Title + ".xls",
		ContentType: "application/vnd.ms-excel",
		Data:        []byte(b.String()),
	}
}

// renderPDF emits a printable HTML document; the browser's print dialog
// does the actual PDF conversion.
func renderPDF(t Table) *Artifact {
	var b strings.Builder
	b.WriteString("<html><head><title>")
	b.WriteString(html.EscapeString(t.Title))
	b.WriteString("</title></head><body><h1>")
	b.WriteString(html.EscapeString(t.Title))
	b.WriteString("</h1>")
	writeHTMLTable(&b, t)
	b.WriteString("<script>window.onload = function () { window.print(); };</script>")
	b.WriteString("</body></html>")

	return &Artifact{
		Filename:    t.Title + ".html",
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(b.String()),
	}
}

func writeHTMLTable(b *strings.Builder, t Table) {
	b.WriteString("<table border='1'><tr>")
	for _, col := range t.Columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(col))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, val := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(val))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
}
