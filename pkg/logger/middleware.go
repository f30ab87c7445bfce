package logger

import (
	"net/http"
	"time"

	"github.com/delcom/watchlist/pkg/interfaces"
)

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware returns an HTTP middleware that logs each request and
// places the logger in the request context.
func HTTPMiddleware(log interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(WithContext(r.Context(), log)))

			log.Info("http request",
				interfaces.String("method", r.Method),
				interfaces.String("path", r.URL.Path),
				interfaces.Int("status", rec.status),
				interfaces.String("duration", time.Since(start).String()),
			)
		})
	}
}
