package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		origins []string
		origin  string
		allowed bool
	}{
		{nil, "http://localhost:5173", true},
		{nil, "https://evil.example", false},
		{[]string{"https://app.tutorialhub.dev"}, "https://app.tutorialhub.dev", true},
		{[]string{"https://app.tutorialhub.dev"}, "http://localhost:5173", false},
	}
	for _, tc := range cases {
		r := gin.New()
		r.Use(CORS(tc.origins...))
		r.OPTIONS("/api/courses", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
		req.Header.Set("Origin", tc.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get("Access-Control-Allow-Origin")
		if tc.allowed && got != tc.origin {
			t.Fatalf("%s: allow-origin want=%q got=%q", tc.origin, tc.origin, got)
		}
		if !tc.allowed && got != "" {
			t.Fatalf("%s: should be rejected, got allow-origin %q", tc.origin, got)
		}
	}
}
