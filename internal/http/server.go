package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jaekwang-park/todos/internal/middleware"
	"github.com/jaekwang-park/todos/internal/service"
)

type Options struct {
	IndexPath   string
	CORSOrigins []string
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(port string, logger *slog.Logger, taskSvc *service.TaskService, opts Options) *Server {
	router := NewRouter(taskSvc, opts.IndexPath)

	// recovery -> request id -> logging -> cors -> router
	chain := middleware.Recovery(logger)(
		middleware.RequestID()(
			middleware.Logging(logger)(
				middleware.CORS(opts.CORSOrigins)(router),
			),
		),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
