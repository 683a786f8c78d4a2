package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	todohttp "github.com/jaekwang-park/todos/internal/http"
	"github.com/jaekwang-park/todos/internal/middleware"
)

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	defer l.Close()
	_, port, _ := net.SplitHostPort(l.Addr().String())
	return port
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServer_StartAndShutdown(t *testing.T) {
	port := freePort(t)
	srv := todohttp.NewServer(port, discardLogger(), newTestTaskSvc(), todohttp.Options{CORSOrigins: []string{"*"}})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			t.Errorf("unexpected server error: %v", err)
		}
	}()

	// Wait for server to be ready
	addr := fmt.Sprintf("http://localhost:%s/health", port)
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, _ = http.Get(addr)
		if resp != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if resp == nil {
		t.Fatal("server did not start in time")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestServer_MiddlewareChain(t *testing.T) {
	srv := todohttp.NewServer("0", discardLogger(), newTestTaskSvc(), todohttp.Options{CORSOrigins: []string{"*"}})
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(`{"title":"from browser"}`))
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set(middleware.RequestIDHeader, "chain-1")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (body: %s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected CORS header, got %q", got)
	}
	if got := w.Header().Get(middleware.RequestIDHeader); got != "chain-1" {
		t.Errorf("expected request id chain-1, got %q", got)
	}
}

func TestServer_Preflight(t *testing.T) {
	srv := todohttp.NewServer("0", discardLogger(), newTestTaskSvc(), todohttp.Options{CORSOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/todos/1", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
}
