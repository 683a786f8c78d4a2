package handler

import (
	"net/http"
	"os"
)

// IndexHandler serves the single-page front end at "/" and answers every
// other unmatched path with a JSON 404.
type IndexHandler struct {
	path string
}

func NewIndexHandler(path string) *IndexHandler {
	return &IndexHandler{path: path}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}

	info, err := os.Stat(h.path)
	if err != nil || info.IsDir() {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "index page not found")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, h.path)
}
