package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestValidAPIKey(t *testing.T) {
	cases := map[string]bool{
		"":                    false,
		"short":               false,
		"YOUR_GEMINI_API_KEY": false,
		"your_api_key_here":   false,
		"sk-0123456789abcdef": true,
		"  sk-0123456789  ":   true,
	}
	for key, want := range cases {
		if got := ValidAPIKey(key); got != want {
			t.Fatalf("ValidAPIKey(%q): want %v got %v", key, want, got)
		}
	}
}

func TestNewClientRejectsPlaceholder(t *testing.T) {
	if _, err := NewClient(Config{APIKey: "your_api_key"}, newTestLogger(t), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured got %v", err)
	}
	if _, err := NewChatModel(Config{APIKey: ""}, newTestLogger(t), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("chat: want ErrNotConfigured got %v", err)
	}
}

func TestGenerateTextSendsOptionsAndExtractsText(t *testing.T) {
	var got responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test-0123456789" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{\"ok\":"},{"type":"output_text","text":"true}"}]}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test-0123456789", BaseURL: srv.URL, Model: "m"}, newTestLogger(t), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	text, err := c.GenerateText(context.Background(), "", "hello", GenerationOptions)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != `{"ok":true}` {
		t.Fatalf("text: %q", text)
	}
	if got.Model != "m" || got.Temperature != 0.8 || got.TopP != 0.95 || got.MaxOutputTokens != 8192 {
		t.Fatalf("request options not forwarded: %+v", got)
	}
	if len(got.Input) != 1 || got.Input[0].Role != "user" {
		t.Fatalf("empty system prompt should be omitted: %+v", got.Input)
	}
}

func TestGenerateTextEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "sk-test-0123456789", BaseURL: srv.URL}, newTestLogger(t), nil)
	if _, err := c.GenerateText(context.Background(), "s", "u", GenerationOptions); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("want ErrNoResponse got %v", err)
	}
}

func TestGenerateTextRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"hi"}]}]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "sk-test-0123456789", BaseURL: srv.URL, MaxRetries: 2}, newTestLogger(t), nil)
	c.(*client).backoff = 10 * time.Millisecond
	text, err := c.GenerateText(context.Background(), "", "u", ChatOptions)
	if err != nil || text != "hi" {
		t.Fatalf("GenerateText: text=%q err=%v", text, err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("want 2 calls got %d", calls)
	}
}

func TestGenerateTextDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "sk-test-0123456789", BaseURL: srv.URL, MaxRetries: 3}, newTestLogger(t), nil)
	if _, err := c.GenerateText(context.Background(), "", "u", ChatOptions); err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("401 should not be retried, calls=%d", calls)
	}
}

type fakeModel struct {
	msgs  []llms.MessageContent
	reply string
}

func (f *fakeModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.msgs = msgs
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, _ ...llms.CallOption) (string, error) {
	return f.reply, nil
}

func TestChatModelMapsRoles(t *testing.T) {
	fm := &fakeModel{reply: "answer"}
	chat := NewChatModelFrom(fm, newTestLogger(t), nil)
	out, err := chat.Chat(context.Background(), "persona", []Turn{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleModel, Content: "a1"},
		{Role: RoleUser, Content: "  "},
	}, "q2", ChatOptions)
	if err != nil || out != "answer" {
		t.Fatalf("Chat: out=%q err=%v", out, err)
	}
	wantRoles := []schema.ChatMessageType{schema.ChatMessageTypeSystem, schema.ChatMessageTypeHuman, schema.ChatMessageTypeAI, schema.ChatMessageTypeHuman}
	if len(fm.msgs) != len(wantRoles) {
		t.Fatalf("message count: want %d got %d", len(wantRoles), len(fm.msgs))
	}
	for i, role := range wantRoles {
		if fm.msgs[i].Role != role {
			t.Fatalf("message %d role: want %s got %s", i, role, fm.msgs[i].Role)
		}
	}

	fm.reply = ""
	if _, err := chat.Chat(context.Background(), "", nil, "q", ChatOptions); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("empty reply: want ErrNoResponse got %v", err)
	}
}
