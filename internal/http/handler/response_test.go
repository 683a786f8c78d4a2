package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaekwang-park/todos/internal/http/handler"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"status": "ok"}

	handler.WriteJSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	handler.WriteError(w, http.StatusUnprocessableEntity, "INVALID_INPUT", "title: length must be >= 1")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", w.Code)
	}

	var result handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Error.Code != "INVALID_INPUT" {
		t.Errorf("expected code=INVALID_INPUT, got %s", result.Error.Code)
	}
	if result.Error.Message != "title: length must be >= 1" {
		t.Errorf("expected message='title: length must be >= 1', got %s", result.Error.Message)
	}
}

func TestWriteJSON_Message(t *testing.T) {
	w := httptest.NewRecorder()

	handler.WriteJSON(w, http.StatusOK, handler.MessageResponse{Message: "To-Do item deleted"})

	if w.Body.String() != `{"message":"To-Do item deleted"}`+"\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
