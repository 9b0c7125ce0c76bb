package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/autoshop/shop-api/internal/domain"
	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a logged 500
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", r.Header.Get(RequestIDHeader)),
					zap.ByteString("stack", debug.Stack()),
				)

				writeJSON(w, http.StatusInternalServerError, domain.APIError{
					Type:    domain.ErrorTypeInternal,
					Title:   http.StatusText(http.StatusInternalServerError),
					Status:  http.StatusInternalServerError,
					Message: "Internal server error",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
