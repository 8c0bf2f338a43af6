package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

// RecoveryMiddleware turns a handler panic into a 500 with the standard error body. Panics are logged through
// the request-scoped logger when RequestID ran first, else through fallback.
func RecoveryMiddleware(fallback *slog.Logger) func(http.Handler) http.Handler {
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

				lg := fallback
				if GetRequestID(w) != "" {
					lg = logger.From(r.Context())
				}
				lg.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(internal.Response{
					Message: "internal server error",
					Error:   internal.ErrCodeUnexpected,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
