package handlers

import (
	"net/http"
)

// The app shell is a single page; routing happens client side. The
// backend only has to serve it for every gated page path that makes
// it past the session gate.
const appShell = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>PennyWise</title></head>
<body><div id="root"></div><script src="/assets/app.js"></script></body>
</html>`

type pagesHandlers struct{}

func NewPagesHandlers() *pagesHandlers {
	return &pagesHandlers{}
}

func (h *pagesHandlers) Shell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(appShell))
}
