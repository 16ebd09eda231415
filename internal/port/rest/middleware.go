package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/platform/metrics"
)

// requestLogger logs one line per request and records its latency under the
// matched route pattern.
func requestLogger(log logger.Logger, m *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)

			m.HTTPRequestLatency.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
			log.Infof("HTTP request: Method=%s, Route=%s, Status=%d, Duration=%s, RequestID=%s",
				r.Method, route, status, elapsed, middleware.GetReqID(r.Context()))
		})
	}
}
