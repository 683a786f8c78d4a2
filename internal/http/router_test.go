package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	todohttp "github.com/jaekwang-park/todos/internal/http"
	"github.com/jaekwang-park/todos/internal/repository"
	"github.com/jaekwang-park/todos/internal/service"
)

func newTestTaskSvc() *service.TaskService {
	return service.NewTaskService(repository.NewMemoryTask())
}

func writeIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte("<h1>To-Do</h1>"), 0o644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}
	return path
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := todohttp.NewRouter(newTestTaskSvc(), "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestRouter_TaskEndpointsRegistered(t *testing.T) {
	router := todohttp.NewRouter(newTestTaskSvc(), "")

	for _, path := range []string{"/todos", "/todos/", "/todos/expired"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_IndexPage(t *testing.T) {
	router := todohttp.NewRouter(newTestTaskSvc(), writeIndex(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "To-Do") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := todohttp.NewRouter(newTestTaskSvc(), writeIndex(t))

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON 404, got Content-Type %s", ct)
	}
}
