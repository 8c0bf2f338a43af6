package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing one supplied by the caller.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "request_id", reqID)
		w.Header().Set(RequestIDHeader, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID reads the id set by RequestID from the response headers.
func GetRequestID(w http.ResponseWriter) string {
	return w.Header().Get(RequestIDHeader)
}
