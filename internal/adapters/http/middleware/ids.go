// Package middleware holds the gin chain in front of the quote routes:
// request and correlation ids, request logging, panic recovery, the API
// deadline and the gateway-header write guard.
package middleware

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotebook/internal/platform/logging"
)

const (
	// HeaderRequestID carries the per-request id.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries the id of the whole transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key for the request id.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key for the correlation id.
	ContextKeyCorrelationID = "correlation_id"
)

// validID limits inbound ids to a charset that is safe to echo into headers
// and logs. Anything else is replaced with a fresh UUID.
var validID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// idKind describes one propagated id. The same name is used as the gin key,
// the log attribute and, through its own type, the request context key.
type idKind struct {
	header string
	name   string
}

var (
	requestID     = idKind{header: HeaderRequestID, name: ContextKeyRequestID}
	correlationID = idKind{header: HeaderCorrelationID, name: ContextKeyCorrelationID}
)

func (k idKind) from(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(k).(string)

	return id
}

func (k idKind) with(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, k, id)
}

// middleware reuses a well-formed inbound header or generates a UUID, echoes
// it in the response and stores it on the gin.Context, the request context
// (for outbound clients) and the context logger.
func (k idKind) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if !validID.MatchString(id) {
			id = uuid.NewString()
		}

		c.Set(k.name, id)
		c.Header(k.header, id)

		ctx := logging.With(c.Request.Context(), slog.String(k.name, id))
		c.Request = c.Request.WithContext(k.with(ctx, id))

		c.Next()
	}
}

// RequestID propagates X-Request-ID.
func RequestID() gin.HandlerFunc { return requestID.middleware() }

// CorrelationID propagates X-Correlation-ID.
func CorrelationID() gin.HandlerFunc { return correlationID.middleware() }

// GetRequestID returns the request id, or "" if the middleware did not run.
func GetRequestID(c *gin.Context) string { return c.GetString(requestID.name) }

// GetCorrelationID returns the correlation id, or "" if the middleware did not run.
func GetCorrelationID(c *gin.Context) string { return c.GetString(correlationID.name) }

// RequestIDFromContext returns the request id for outbound X-Request-ID, or "".
func RequestIDFromContext(ctx context.Context) string { return requestID.from(ctx) }

// CorrelationIDFromContext returns the correlation id for outbound X-Correlation-ID, or "".
func CorrelationIDFromContext(ctx context.Context) string { return correlationID.from(ctx) }

// ContextWithRequestID stores a request id for outbound clients.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return requestID.with(ctx, id)
}

// ContextWithCorrelationID stores a correlation id for outbound clients.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return correlationID.with(ctx, id)
}
