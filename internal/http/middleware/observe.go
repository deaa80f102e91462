package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// Observe logs every request and records API metrics. Either argument may be nil.
// Event streams stay open for minutes, so they are logged but kept out of the
// latency histogram.
func Observe(log *logger.Logger, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		streaming := strings.HasSuffix(route, "/sse/stream")
		if m != nil && !streaming {
			m.APIInflightInc()
			defer m.APIInflightDec()
		}

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		if route == "" {
			route = "unknown"
		}
		if m != nil && !streaming {
			m.ObserveAPI(c.Request.Method, route, strconv.Itoa(status), elapsed)
		}
		if log == nil {
			return
		}
		logRequest(log, c, route, status, elapsed)
	}
}

func logRequest(log *logger.Logger, c *gin.Context, route string, status int, elapsed time.Duration) {
	fields := []interface{}{
		"method", c.Request.Method,
		"route", route,
		"path", c.Request.URL.Path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != "" {
		fields = append(fields, "user_id", rd.UserID)
	}
	if courseID := c.Param("courseId"); courseID != "" {
		fields = append(fields, "course_id", courseID)
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "error", c.Errors.String())
	}

	switch {
	case status >= 500:
		log.Error("HTTP request", fields...)
	case status >= 400:
		log.Warn("HTTP request", fields...)
	case route == "/healthcheck" || route == "/metrics":
		log.Debug("HTTP request", fields...)
	default:
		log.Info("HTTP request", fields...)
	}
}
