package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

type recoveryWriter struct {
	http.ResponseWriter
	headerWritten bool
}

func (rw *recoveryWriter) WriteHeader(code int) {
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recoveryWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	return rw.ResponseWriter.Write(b)
}

func (rw *recoveryWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

type panicBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// Recovery turns a panic in next into a logged 500. If the handler already
// started the response, the status cannot change and only the log is written.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &recoveryWriter{ResponseWriter: w}

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				// RequestID runs inside Recovery, so the id is only on the response
				requestID := w.Header().Get(RequestIDHeader)
				logger.Error("panic recovered",
					"error", v,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestID,
					"stack", string(debug.Stack()),
				)

				if rw.headerWritten {
					return
				}

				var body panicBody
				body.Error.Code = "INTERNAL_ERROR"
				body.Error.Message = "internal server error"
				body.Error.RequestID = requestID

				rw.Header().Set("Content-Type", "application/json")
				rw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(rw).Encode(body); err != nil {
					logger.Error("failed to write recovery response", "error", err)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
