package http

import (
	"net/http"

	"github.com/jaekwang-park/todos/internal/http/handler"
	"github.com/jaekwang-park/todos/internal/service"
)

func NewRouter(taskSvc *service.TaskService, indexPath string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", handler.NewHealthHandler(taskSvc))

	taskHandler := handler.NewTaskHandler(taskSvc)
	mux.Handle("/todos", taskHandler)
	mux.Handle("/todos/", taskHandler)

	// "/" matches every unregistered path; the index handler 404s anything else
	mux.Handle("/", handler.NewIndexHandler(indexPath))

	return mux
}
