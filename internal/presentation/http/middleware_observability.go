package httppresentation

import (
	"strconv"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/felipeshurrab/Harmonia/internal/observability/logctx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const headerRequestID = "X-Request-ID"

// ObservabilityMiddleware runs after otelgin has opened the server span and
// combines:
// - X-Request-ID generation + echo
// - request-scoped logger injection (dynamic fields only)
// - HTTP metrics (counter + histogram) keyed by the route template
// - one http_access log line per request
func ObservabilityMiddleware(base observability.Logger, tel observability.Observability) gin.HandlerFunc {
	_, fallback, metrics := observability.Resolve(tel)
	if base == nil {
		base = fallback
	}
	requests := metrics.Counter(observability.MHTTPRequests)
	durations := metrics.Histogram(observability.MHTTPRequestDuration)

	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(headerRequestID, rid)

		ctx := c.Request.Context()
		fields := []observability.Field{observability.F("request_id", rid)}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		reqLogger := base.With(fields...)
		c.Request = c.Request.WithContext(logctx.With(ctx, reqLogger))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		labels := []observability.Label{
			observability.L("method", c.Request.Method),
			observability.L("route", route),
			observability.L("status", status),
		}
		requests.Add(1, labels...)
		durations.Observe(time.Since(start).Seconds(), labels...)

		accessFields := []observability.Field{
			observability.F("method", c.Request.Method),
			observability.F("route", route),
			observability.F("path", c.Request.URL.Path),
			observability.F("status", c.Writer.Status()),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		}
		logctx.FromOr(c.Request.Context(), reqLogger).Info("http_access", accessFields...)
	}
}
