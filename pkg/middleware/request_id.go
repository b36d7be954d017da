package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sorajobs/admin-dashboard/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, or from
// chi's built-in middleware, or generates a fresh one, and injects it into
// the request context so handlers can attach it to error responses.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("x-request-id")
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
