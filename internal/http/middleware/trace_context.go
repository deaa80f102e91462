package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
)

const (
	headerTraceID    = "X-Trace-Id"
	headerRequestID  = "X-Request-Id"
	maxCorrelationID = 128
)

// AttachTraceContext stamps every request with a trace id and a request id.
// An active otel span wins over the X-Trace-Id header; unusable header values
// are replaced. Both ids are echoed back and travel into enqueued jobs.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := correlationID(c.GetHeader(headerRequestID))
		traceID := ""
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else {
			traceID = correlationID(c.GetHeader(headerTraceID))
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerTraceID, traceID)
		c.Header(headerRequestID, reqID)
		c.Next()
	}
}

// correlationID keeps a client-supplied id when it is short and printable,
// otherwise mints a fresh uuid.
func correlationID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxCorrelationID {
		return uuid.NewString()
	}
	for _, r := range raw {
		if r < 0x21 || r > 0x7e {
			return uuid.NewString()
		}
	}
	return raw
}
