package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/service"
)

type TaskHandler struct {
	svc       *service.TaskService
	validator *requestValidator
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	v, err := newRequestValidator()
	if err != nil {
		// schemas are embedded at build time
		panic(err)
	}
	return &TaskHandler{svc: svc, validator: v}
}

// ServeHTTP routes /todos, /todos/expired, /todos/{id} and /todos/{id}/toggle
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/todos")
	path = strings.Trim(path, "/")

	parts := strings.SplitN(path, "/", 2)
	taskID := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	// /todos
	if taskID == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	// /todos/expired
	if taskID == "expired" && subPath == "" {
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
			return
		}
		h.handleListExpired(w, r)
		return
	}

	id, err := strconv.ParseInt(taskID, 10, 64)
	if err != nil {
		writeNotFound(w)
		return
	}

	switch subPath {
	case "":
		// /todos/{id}
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
	case "toggle":
		// /todos/{id}/toggle
		if r.Method != http.MethodPatch {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleToggle(w, r, id)
	default:
		writeNotFound(w)
	}
}

type taskRequest struct {
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	DueDate   *string  `json:"due_date"`
	Tags      []string `json:"tags"`
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	params := model.TaskListParams{Tag: r.URL.Query().Get("tag")}

	tasks, err := h.svc.List(r.Context(), params)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) handleListExpired(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ListExpired(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(w, r, h.validator.create, &req); err != nil {
		handleDecodeError(w, err)
		return
	}

	input := model.CreateTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
		DueDate:   req.DueDate,
		Tags:      req.Tags,
	}

	task, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	task, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	var req taskRequest
	if err := decode(w, r, h.validator.update, &req); err != nil {
		handleDecodeError(w, err)
		return
	}

	input := model.UpdateTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
		DueDate:   req.DueDate,
		Tags:      req.Tags,
	}

	task, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleToggle(w http.ResponseWriter, r *http.Request, id int64) {
	task, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: "To-Do item deleted"})
}

func writeNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "NOT_FOUND", "To-Do item not found")
}

func handleDecodeError(w http.ResponseWriter, err error) {
	var se *SchemaError
	switch {
	case errors.As(err, &se):
		WriteError(w, http.StatusUnprocessableEntity, "INVALID_INPUT", se.Error())
	case errors.Is(err, errBodyTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
	case errors.Is(err, errInvalidJSON):
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
	default:
		slog.Error("request validation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeNotFound(w)
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusUnprocessableEntity, "INVALID_INPUT", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
