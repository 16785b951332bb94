package middleware

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"
)

// RequestIDHeader carries the per-request ID on every response.
const RequestIDHeader = "X-Request-ID"

// Chain wraps a handler with the standard middleware stack: panic
// recovery on the outside, then access logging, CORS and request IDs.
func Chain(h http.Handler) http.Handler {
	h = RequestID(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.CombinedLoggingHandler(os.Stdout, h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(h)
	return h
}

// RequestID tags every response with a short unique ID so client
// reports can be matched against server logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get(RequestIDHeader) == "" {
			w.Header().Set(RequestIDHeader, nuts.NID("req", 12))
		}
		next.ServeHTTP(w, r)
	})
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	nuts.L.Errorf("[Middleware] panic recovered: %v", v)
}
