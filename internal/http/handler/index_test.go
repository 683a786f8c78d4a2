package handler_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaekwang-park/todos/internal/http/handler"
)

func TestIndexHandler(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	if err := os.WriteFile(page, []byte("<html><body>todos</body></html>"), 0o644); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}

	tests := []struct {
		name       string
		indexPath  string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"serves page", page, http.MethodGet, "/", http.StatusOK, "todos"},
		{"missing page", filepath.Join(dir, "absent.html"), http.MethodGet, "/", http.StatusNotFound, "NOT_FOUND"},
		{"directory", dir, http.MethodGet, "/", http.StatusNotFound, "NOT_FOUND"},
		{"unknown path", page, http.MethodGet, "/unknown", http.StatusNotFound, "NOT_FOUND"},
		{"post", page, http.MethodPost, "/", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewIndexHandler(tt.indexPath)
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %s", tt.wantBody, w.Body.String())
			}
		})
	}
}
