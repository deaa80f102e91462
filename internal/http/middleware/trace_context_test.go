package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name      string
		requestID string
		keep      bool
	}{
		{"kept", "req-123", true},
		{"missing", "", false},
		{"too long", strings.Repeat("a", maxCorrelationID+1), false},
		{"control chars", "bad\tid", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen *ctxutil.TraceData
			r := gin.New()
			r.Use(AttachTraceContext())
			r.GET("/x", func(c *gin.Context) {
				seen = ctxutil.GetTraceData(c.Request.Context())
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.requestID != "" {
				req.Header.Set(headerRequestID, tc.requestID)
			}
			req.Header.Set(headerTraceID, "trace-abc")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if seen == nil {
				t.Fatalf("trace data not attached")
			}
			if seen.TraceID != "trace-abc" || rec.Header().Get(headerTraceID) != "trace-abc" {
				t.Fatalf("trace id: %q / %q", seen.TraceID, rec.Header().Get(headerTraceID))
			}
			got := rec.Header().Get(headerRequestID)
			if got != seen.RequestID || got == "" {
				t.Fatalf("request id mismatch: header=%q ctx=%q", got, seen.RequestID)
			}
			if (got == tc.requestID) != tc.keep {
				t.Fatalf("request id %q kept=%v want kept=%v", got, got == tc.requestID, tc.keep)
			}
		})
	}
}
