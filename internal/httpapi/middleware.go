package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

// LoggerFromContext returns the request scoped logger, or a no-op logger
// outside a request.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(CtxKeyLogger).(*zap.SugaredLogger); ok {
		return logger
	}

	return zap.NewNop().Sugar()
}

// Logger puts a logger tagged with the request id on the request context.
func (s *Server) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, logger)))
	})
}

// AccessLog writes one line per request once the response is done.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			LoggerFromContext(r.Context()).Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", routePattern(r),
				"remote", r.RemoteAddr,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// Metrics records request count and latency per route pattern.
func (s *Server) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.metrics.ObserveRequest(r.Context(), routePattern(r), r.Method, ww.Status(), time.Since(start))
	})
}

// CORS lets browsers call the API from any origin. Preflight requests are
// answered here and never reach the routes.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Credentials", "false")
			h.Set("Access-Control-Max-Age", "86400")
			h.Set("Access-Control-Allow-Headers", "X-Requested-With, X-HTTP-Method-Override, Content-Type, Accept")
			w.WriteHeader(http.StatusOK)

			return
		}

		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "X-Requested-With,content-type")
		next.ServeHTTP(w, r)
	})
}

// routePattern is the matched chi pattern, or "unmatched" for paths that
// fell through to the positional resolver.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return "unmatched"
}
