package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mergington/activities/internal/metrics"
)

// TracingMiddleware assigns trace/span IDs to each request and records
// per-route request metrics.
type TracingMiddleware struct {
	logger *zap.Logger
}

// NewTracingMiddleware creates a new tracing middleware
func NewTracingMiddleware(logger *zap.Logger) *TracingMiddleware {
	return &TracingMiddleware{
		logger: logger,
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware returns the HTTP middleware function
func (tm *TracingMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := tm.extractTraceID(r)
		if traceID == "" {
			traceID = tm.generateTraceID()
		}
		spanID := tm.generateSpanID()

		w.Header().Set("X-Trace-ID", traceID)
		w.Header().Set("X-Span-ID", spanID)

		route := routeLabel(r)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		tm.logger.Debug("Request handled",
			zap.String("trace_id", traceID),
			zap.String("span_id", spanID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}

// routeLabel collapses activity names out of the path so the metric label
// set stays bounded.
func routeLabel(r *http.Request) string {
	path := r.URL.Path
	switch {
	case path == "/activities":
		return "/activities"
	case strings.HasSuffix(path, "/signup"):
		return "/activities/{name}/signup"
	case strings.HasSuffix(path, "/unregister"):
		return "/activities/{name}/unregister"
	case strings.HasPrefix(path, "/activities/"):
		return "/activities/{name}"
	case strings.HasPrefix(path, "/static/"):
		return "/static"
	default:
		return path
	}
}

// extractTraceID extracts trace ID from request headers
func (tm *TracingMiddleware) extractTraceID(r *http.Request) string {
	// W3C Trace Context
	if traceparent := r.Header.Get("traceparent"); traceparent != "" {
		parts := strings.Split(traceparent, "-")
		if len(parts) >= 2 {
			return parts[1]
		}
	}
	if traceID := r.Header.Get("X-Trace-ID"); traceID != "" {
		return traceID
	}
	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		return requestID
	}
	return ""
}

func (tm *TracingMiddleware) generateTraceID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func (tm *TracingMiddleware) generateSpanID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String()[:16], "-", "")
}
