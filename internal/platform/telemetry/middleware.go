package telemetry

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

const meterName = "github.com/jsamuelsen/quotebook/internal/platform/telemetry"

// TraceHeader carries the trace id of the request back to the caller.
const TraceHeader = "X-Trace-ID"

// serverInstruments are the per-route HTTP meters.
type serverInstruments struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerInstruments(meter metric.Meter) (*serverInstruments, error) {
	var (
		si  serverInstruments
		err error
	)

	if si.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time spent serving a quotebook request"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if si.requests, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Quotebook requests served, by route and status"),
	); err != nil {
		return nil, err
	}

	if si.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Quotebook requests currently in flight"),
	); err != nil {
		return nil, err
	}

	return &si, nil
}

func (si *serverInstruments) begin(ctx context.Context, route metric.MeasurementOption) func() {
	si.inFlight.Add(ctx, 1, route)
	return func() { si.inFlight.Add(ctx, -1, route) }
}

func (si *serverInstruments) finish(ctx context.Context, c *gin.Context, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", c.FullPath()),
		attribute.Int("http.status_code", c.Writer.Status()),
	)

	si.duration.Record(ctx, elapsed.Seconds(), attrs)
	si.requests.Add(ctx, 1, attrs)
}

// ServerMetrics records request meters per route. When a span is active it
// also sets TraceHeader and tags the request logger with trace_id, so it must
// run after Tracing and before request logging.
func ServerMetrics() gin.HandlerFunc {
	si, err := newServerInstruments(otel.Meter(meterName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			id := sc.TraceID().String()
			c.Header(TraceHeader, id)

			ctx = logging.WithTraceID(ctx, id)
			c.Request = c.Request.WithContext(ctx)
		}

		if si == nil {
			c.Next()
			return
		}

		start := time.Now()
		done := si.begin(ctx, metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		))

		c.Next()

		done()
		si.finish(ctx, c, time.Since(start))
	}
}

// Tracing starts a server span per request and extracts inbound trace context.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
