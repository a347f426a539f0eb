package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/carlothq/carlot-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, honoring one supplied by the
// caller so traces can span the frontend and this service. The id is echoed
// back on the response and attached to the context logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestIDFor(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestIDFor(r *http.Request) string {
	if incoming := r.Header.Get(requestIDHeader); incoming != "" {
		return incoming
	}
	return uuid.NewString()
}
