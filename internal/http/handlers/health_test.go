package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		db     Pinger
		status int
		body   string
	}{
		{"no db", nil, http.StatusOK, `"status":"ok"`},
		{"db up", pingFunc(func(context.Context) error { return nil }), http.StatusOK, `"db":"ok"`},
		{"db down", pingFunc(func(context.Context) error { return errors.New("refused") }), http.StatusServiceUnavailable, `"db":"unreachable"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/healthcheck", NewHealthHandler(tc.db).HealthCheck)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
			if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("got %d %s", rec.Code, rec.Body.String())
			}
		})
	}
}
