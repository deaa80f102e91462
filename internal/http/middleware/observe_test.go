package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

func TestObserveRecordsRoutesButNotStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	m := observability.NewMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(Observe(log, m))
	r.GET("/api/courses/:courseId", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/api/sse/stream", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/courses/abc", "/api/sse/stream", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `route="/api/courses/:courseId",status="404"`) {
		t.Fatalf("course route not recorded:\n%s", body)
	}
	if !strings.Contains(body, `route="unknown"`) {
		t.Fatalf("unmatched route not recorded as unknown")
	}
	if strings.Contains(body, `route="/api/sse/stream"`) {
		t.Fatalf("stream should not be recorded")
	}
	if !strings.Contains(body, "tutorialhub_api_inflight_requests 0") {
		t.Fatalf("inflight gauge not balanced")
	}
}

func TestObserveWithoutCollaborators(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Observe(nil, nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: %d", rec.Code)
	}
}
