package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log, _ := logger.New("test")
	c, err := NewClient(context.Background(), Config{Endpoint: srv.URL + "/"}, log, nil,
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestSearchVideoIDReturnsFirstVideo(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("type") != "video" || r.URL.Query().Get("maxResults") != "1" {
			t.Errorf("unexpected params: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":{"kind":"youtube#video","videoId":"abc123"}}]}`))
	})
	id, err := c.SearchVideoID(context.Background(), "Python: Intro")
	if err != nil || id != "abc123" {
		t.Fatalf("SearchVideoID: id=%q err=%v", id, err)
	}
	if gotQuery != "Python: Intro" {
		t.Fatalf("query: %q", gotQuery)
	}
}

func TestSearchVideoIDEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	id, err := c.SearchVideoID(context.Background(), "x")
	if err != nil || id != "" {
		t.Fatalf("want empty id, got id=%q err=%v", id, err)
	}
}

func TestSearchVideoIDError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota"}}`))
	})
	if _, err := c.SearchVideoID(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	log, _ := logger.New("test")
	if _, err := NewClient(context.Background(), Config{}, log, nil); err != ErrNotConfigured {
		t.Fatalf("want ErrNotConfigured got %v", err)
	}
}
